package model

import "time"

// User is a household member identified by their Telegram account.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	// DailyBudgetMinutes overrides the configured budget when non-zero.
	DailyBudgetMinutes int
	BudgetDisabled     bool `gorm:"default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
