package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SummaryTTL = 10 * time.Minute
	SummaryKey = "availability:summary" // 全员日期统计，date -> 人数
)

// SummaryCacheRepository 团体可用日期统计的读缓存。
// 写路径（加/删日期）负责删 Key，读路径 miss 后回源并回填。
type SummaryCacheRepository struct {
	ttl time.Duration
}

func NewSummaryCacheRepository() *SummaryCacheRepository {
	return &SummaryCacheRepository{ttl: SummaryTTL}
}

// GetCached 第二个返回值表示是否命中
func (r *SummaryCacheRepository) GetCached(ctx context.Context) (map[string]int, bool, error) {
	val, err := Client.Get(ctx, SummaryKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(val), &counts); err != nil {
		// 脏数据直接当 miss 处理
		return nil, false, nil
	}
	return counts, true, nil
}

func (r *SummaryCacheRepository) Set(ctx context.Context, counts map[string]int) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return Client.Set(ctx, SummaryKey, raw, r.ttl).Err()
}

// Delete 写侧失效；交给读侧重建
func (r *SummaryCacheRepository) Delete(ctx context.Context) error {
	if err := Client.Del(ctx, SummaryKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
