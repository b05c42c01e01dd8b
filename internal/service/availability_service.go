package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/repository/mysql"
	"github.com/Tengorio/12pavos/internal/repository/redis"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type AvailabilityService struct {
	repo  *mysql.AvailabilityRepository
	cache *redis.SummaryCacheRepository
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{
		repo:  &mysql.AvailabilityRepository{DB: db},
		cache: redis.NewSummaryCacheRepository(),
	}
}

// AddDate 追加一个可参加日期；已存在时幂等返回 changed=false
func (s *AvailabilityService) AddDate(ctx context.Context, userID uint64, date string) (bool, error) {
	if userID == 0 {
		return false, errors.New("invalid user id")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false, errors.New("invalid date, expected YYYY-MM-DD")
	}

	dates, err := s.myDates(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, d := range dates {
		if d == date {
			return false, nil
		}
	}
	dates = append(dates, date)
	sort.Strings(dates)

	if err := s.saveDates(ctx, userID, dates); err != nil {
		return false, err
	}
	s.invalidateSummary(ctx)
	return true, nil
}

// RemoveDate 不存在时幂等返回 changed=false
func (s *AvailabilityService) RemoveDate(ctx context.Context, userID uint64, date string) (bool, error) {
	if userID == 0 {
		return false, errors.New("invalid user id")
	}
	dates, err := s.myDates(ctx, userID)
	if err != nil {
		return false, err
	}
	kept := dates[:0]
	removed := false
	for _, d := range dates {
		if d == date {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		return false, nil
	}
	if err := s.saveDates(ctx, userID, kept); err != nil {
		return false, err
	}
	s.invalidateSummary(ctx)
	return true, nil
}

func (s *AvailabilityService) MyDates(ctx context.Context, userID uint64) ([]string, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	return s.myDates(ctx, userID)
}

// GroupSummary 全员统计 date -> 能来的人数。读缓存，miss 回源并回填
func (s *AvailabilityService) GroupSummary(ctx context.Context) (map[string]int, error) {
	if redis.Ready() {
		if counts, ok, err := s.cache.GetCached(ctx); err == nil && ok {
			return counts, nil
		}
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, a := range rows {
		var dates []string
		if a.DatesJSON == "" {
			continue
		}
		if err := json.Unmarshal([]byte(a.DatesJSON), &dates); err != nil {
			// 脏行跳过，不让一条坏数据拖垮统计
			continue
		}
		for _, d := range dates {
			counts[d]++
		}
	}

	if redis.Ready() {
		_ = s.cache.Set(ctx, counts)
	}
	return counts, nil
}

func (s *AvailabilityService) myDates(ctx context.Context, userID uint64) ([]string, error) {
	avail, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if avail.DatesJSON == "" {
		return []string{}, nil
	}
	var dates []string
	if err := json.Unmarshal([]byte(avail.DatesJSON), &dates); err != nil {
		return []string{}, nil
	}
	return dates, nil
}

func (s *AvailabilityService) saveDates(ctx context.Context, userID uint64, dates []string) error {
	raw, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, &model.Availability{
		UserID:    userID,
		DatesJSON: string(raw),
	})
}

// 写侧删 Key，读侧重建
func (s *AvailabilityService) invalidateSummary(ctx context.Context) {
	if redis.Ready() {
		_ = s.cache.Delete(ctx)
	}
}
