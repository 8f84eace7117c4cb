package model

import "time"

// Task is a recurring chore definition.
type Task struct {
	ID               uint  `gorm:"primaryKey"`
	UserID           uint  `gorm:"index"`
	AreaID           *uint `gorm:"index"`
	Title            string
	Frequency        string `gorm:"size:32;not null"`
	EstimatedMinutes *int
	// PreferredWeekday is 0 (Sunday) to 6 and only meaningful for weekly tasks.
	PreferredWeekday *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Occurrences      []Occurrence `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// Weekday returns PreferredWeekday as a time.Weekday.
func (t Task) Weekday() *time.Weekday {
	if t.PreferredWeekday == nil {
		return nil
	}
	wd := time.Weekday(*t.PreferredWeekday)
	return &wd
}
