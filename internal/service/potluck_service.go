package service

import (
	"context"
	"errors"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/repository/mysql"

	"gorm.io/gorm"
)

type PotluckService struct {
	repo     *mysql.PotluckRepository
	userRepo *mysql.UserRepository
}

func NewPotluckService(db *gorm.DB) *PotluckService {
	return &PotluckService{
		repo:     &mysql.PotluckRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

// PotluckEntry 全员菜单表：带提议者昵称，供"大家都报了什么"页面使用
type PotluckEntry struct {
	Friend   string `json:"friend"`
	Dish1    string `json:"dish_1"`
	Dish2    string `json:"dish_2"`
	Dish3    string `json:"dish_3"`
	Assigned string `json:"assigned"`
}

// SaveOptions 保存/覆盖本人的三个候选菜
func (s *PotluckService) SaveOptions(ctx context.Context, userID uint64, d1, d2, d3 string) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}
	if d1 == "" && d2 == "" && d3 == "" {
		return errors.New("at least one dish required")
	}
	return s.repo.Upsert(ctx, &model.Potluck{
		UserID: userID,
		Dish1:  d1,
		Dish2:  d2,
		Dish3:  d3,
	})
}

// MyEntry 没报过菜时返回 nil, nil
func (s *PotluckService) MyEntry(ctx context.Context, userID uint64) (*model.Potluck, error) {
	entry, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *PotluckService) ListAll(ctx context.Context) ([]PotluckEntry, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withNames(rows)
}

// AutoAssign 重跑覆盖所有历史分配；先到先得，不保证全局最优
func (s *PotluckService) AutoAssign(ctx context.Context) ([]PotluckEntry, error) {
	rows, err := s.repo.AutoAssign(ctx)
	if err != nil {
		return nil, err
	}
	return s.withNames(rows)
}

func (s *PotluckService) withNames(rows []model.Potluck) ([]PotluckEntry, error) {
	ids := make([]uint64, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.UserID)
	}
	names, err := s.userRepo.NamesByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]PotluckEntry, 0, len(rows))
	for _, p := range rows {
		out = append(out, PotluckEntry{
			Friend:   names[p.UserID],
			Dish1:    p.Dish1,
			Dish2:    p.Dish2,
			Dish3:    p.Dish3,
			Assigned: p.AssignedDish,
		})
	}
	return out, nil
}
