package model

import "time"

type Wish struct {
	ID          uint64  `gorm:"primaryKey"`
	UserID      uint64  `gorm:"not null;index:idx_wish_owner"`
	Description string  `gorm:"size:255;not null"`
	ClaimedByID *uint64 `gorm:"index:idx_wish_claimant"` // nil = unclaimed; never equals UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Wish) TableName() string {
	return "wishes"
}

// ExchangeOutbox 认领/释放事件表，由 relayer 异步投递
type ExchangeOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // claim / release
	WishID    uint64 `gorm:"not null"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ExchangeOutbox) TableName() string { return "exchange_outbox" }
