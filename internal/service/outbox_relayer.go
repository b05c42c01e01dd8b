package service

import (
	"context"
	"log"
	"time"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/pkg"
	"github.com/Tengorio/12pavos/internal/repository/mysql"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.ExchangeOutbox) error

// OutboxRelayer 把 exchange_outbox 里的认领/释放事件异步投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 每个 tick 投递一批；失败标记重试，成功标记完成
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 未配置 Kafka 时的兜底 sender
func LogSender(ctx context.Context, ob *model.ExchangeOutbox) error {
	log.Printf("OUTBOX SEND type=%s wish=%d actor=%d payload=%s", ob.EventType, ob.WishID, ob.ActorID, ob.Payload)
	return nil
}

// KafkaSender 按 wish id 做 key，同一心愿的事件落同一分区保序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ExchangeOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.WishID), []byte(ob.Payload))
	}
}
