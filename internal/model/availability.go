package model

import "time"

type Availability struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_availability_user"`
	DatesJSON string `gorm:"type:text"` // sorted JSON array of "YYYY-MM-DD"
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Availability) TableName() string {
	return "availability"
}
