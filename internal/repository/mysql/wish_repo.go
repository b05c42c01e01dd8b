package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Tengorio/12pavos/internal/model"

	"gorm.io/gorm"
)

var (
	ErrWishNotFound    = errors.New("wish not found")
	ErrWishCapExceeded = errors.New("wish cap exceeded")
	ErrSelfClaim       = errors.New("cannot claim own wish")
	ErrAlreadyClaimed  = errors.New("wish already claimed")
	ErrNotClaimant     = errors.New("not the claimant")
)

// MaxWishesPerUser 原 app 固定为 5
const MaxWishesPerUser = 5

type WishRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// CreateWithCap 上限内插入心愿；count+insert 同一事务，避免并发双双通过校验
func (r *WishRepository) CreateWithCap(ctx context.Context, wish *model.Wish) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Wish{}).
			Where("user_id = ?", wish.UserID).
			Count(&n).Error; err != nil {
			return err
		}
		if n >= MaxWishesPerUser {
			return ErrWishCapExceeded
		}
		return tx.Create(wish).Error
	})
}

// ListByOwner 按插入顺序返回本人心愿，认领状态一并返回（展示层决定露出多少）
func (r *WishRepository) ListByOwner(ctx context.Context, userID uint64) ([]model.Wish, error) {
	var list []model.Wish
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ListAvailable 未被认领且非本人的心愿（礼物市场的数据源）
func (r *WishRepository) ListAvailable(ctx context.Context, callerID uint64) ([]model.Wish, error) {
	var list []model.Wish
	err := r.DB.WithContext(ctx).
		Where("user_id <> ? AND claimed_by_id IS NULL", callerID).
		Find(&list).Error
	return list, err
}

func (r *WishRepository) ListClaimedBy(ctx context.Context, callerID uint64) ([]model.Wish, error) {
	var list []model.Wish
	err := r.DB.WithContext(ctx).
		Where("claimed_by_id = ?", callerID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *WishRepository) FindByID(ctx context.Context, id uint64) (*model.Wish, error) {
	var wish model.Wish
	err := r.DB.WithContext(ctx).First(&wish, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWishNotFound
	}
	return &wish, err
}

// Claim 单条带条件 UPDATE 原子抢占，不做 read-then-write。
// N 个并发调用只有一个看到 RowsAffected==1；下面的回读仅用于区分失败原因。
func (r *WishRepository) Claim(ctx context.Context, wishID, callerID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Wish{}).
			Where("id = ? AND user_id <> ? AND claimed_by_id IS NULL", wishID, callerID).
			Update("claimed_by_id", callerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var wish model.Wish
			if err := tx.First(&wish, wishID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrWishNotFound
				}
				return err
			}
			if wish.UserID == callerID {
				return ErrSelfClaim
			}
			return ErrAlreadyClaimed
		}
		return r.insertOutbox(tx, "claim", wishID, callerID)
	})
}

// Release 放回礼物池；仅当前认领者可释放，同样走带条件 UPDATE
func (r *WishRepository) Release(ctx context.Context, wishID, callerID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Wish{}).
			Where("id = ? AND claimed_by_id = ?", wishID, callerID).
			Update("claimed_by_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var wish model.Wish
			if err := tx.First(&wish, wishID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrWishNotFound
				}
				return err
			}
			// 记录存在但认领者是别人或已为空
			return ErrNotClaimant
		}
		return r.insertOutbox(tx, "release", wishID, callerID)
	})
}

// 事件与状态变更同事务写入
func (r *WishRepository) insertOutbox(tx *gorm.DB, event string, wishID, actorID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"wish_id":    wishID,
		"actor":      actorID,
	})
	ob := &model.ExchangeOutbox{
		EventType: event,
		WishID:    wishID,
		ActorID:   actorID,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List outbox 待投递查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ExchangeOutbox, error) {
	var list []model.ExchangeOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败记录并累加重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ExchangeOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ExchangeOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
