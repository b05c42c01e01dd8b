package mysql

import (
	"context"

	"github.com/Tengorio/12pavos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvailabilityRepository struct {
	DB *gorm.DB
}

// Upsert 每人一行，(user_id) 冲突则整体覆盖日期串
func (r *AvailabilityRepository) Upsert(ctx context.Context, avail *model.Availability) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dates_json", "updated_at"}),
	}).Create(avail).Error
}

func (r *AvailabilityRepository) FindByUser(ctx context.Context, userID uint64) (*model.Availability, error) {
	var avail model.Availability
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&avail).Error
	return &avail, err
}

func (r *AvailabilityRepository) ListAll(ctx context.Context) ([]model.Availability, error) {
	var list []model.Availability
	err := r.DB.WithContext(ctx).Find(&list).Error
	return list, err
}
