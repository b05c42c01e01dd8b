package model

import "time"

type Potluck struct {
	ID           uint64 `gorm:"primaryKey"`
	UserID       uint64 `gorm:"not null;uniqueIndex:uk_potluck_user"`
	Dish1        string `gorm:"column:dish_1;size:200"`
	Dish2        string `gorm:"column:dish_2;size:200"`
	Dish3        string `gorm:"column:dish_3;size:200"`
	AssignedDish string `gorm:"size:200"` // overwritten on every auto-assign run
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Potluck) TableName() string {
	return "potluck"
}
