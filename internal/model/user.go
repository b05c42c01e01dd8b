package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:50;not null"`
	Password  string `gorm:"size:255;not null"`
	Name      string `gorm:"size:100"`
	Email     string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
