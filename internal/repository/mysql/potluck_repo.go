package mysql

import (
	"context"

	"github.com/Tengorio/12pavos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictDish 贪心分配失败时的占位值
const ConflictDish = "CONFLICT: needs manual resolution"

type PotluckRepository struct {
	DB *gorm.DB
}

// Upsert 幂等保存：每人一行，(user_id) 冲突则覆盖三个候选菜
func (r *PotluckRepository) Upsert(ctx context.Context, entry *model.Potluck) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dish_1", "dish_2", "dish_3", "updated_at"}),
	}).Create(entry).Error
}

func (r *PotluckRepository) FindByUser(ctx context.Context, userID uint64) (*model.Potluck, error) {
	var entry model.Potluck
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&entry).Error
	return &entry, err
}

// ListAll 按创建顺序（id ASC），auto-assign 的遍历顺序即先到先得
func (r *PotluckRepository) ListAll(ctx context.Context) ([]model.Potluck, error) {
	var list []model.Potluck
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// AutoAssign 全表重写放在一个事务里：中途失败则回滚，保留上一次的分配结果。
// 贪心 first-fit：按 entry 顺序尝试 slot 1→2→3，取第一个非空且未被占用的菜；
// 三个都不行则写入 ConflictDish。不做回溯，非全局最优。
func (r *PotluckRepository) AutoAssign(ctx context.Context) ([]model.Potluck, error) {
	var list []model.Potluck
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&list).Error; err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(list))
		for i := range list {
			assigned := ConflictDish
			for _, dish := range []string{list[i].Dish1, list[i].Dish2, list[i].Dish3} {
				if dish == "" {
					continue
				}
				if _, ok := taken[dish]; ok {
					continue
				}
				assigned = dish
				taken[dish] = struct{}{}
				break
			}
			list[i].AssignedDish = assigned
			if err := tx.Model(&model.Potluck{}).
				Where("id = ?", list[i].ID).
				Update("assigned_dish", assigned).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
