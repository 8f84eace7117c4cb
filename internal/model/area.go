package model

import "time"

// Area groups chores by part of the home (kitchen, bathroom, garden).
type Area struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index:idx_user_area_name,unique"`
	Name      string `gorm:"index:idx_user_area_name,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:AreaID"`
}
