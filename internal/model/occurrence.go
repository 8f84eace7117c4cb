package model

import "time"

type OccurrenceStatus string

const (
	StatusPending   OccurrenceStatus = "pending"
	StatusCompleted OccurrenceStatus = "completed"
	StatusSkipped   OccurrenceStatus = "skipped"
)

// Occurrence is one scheduled instance of a task coming due.
type Occurrence struct {
	ID     uint `gorm:"primaryKey"`
	TaskID uint `gorm:"index;not null"`
	// DueOn is the calendar date as YYYY-MM-DD. Stored as text so the date
	// does not shift with the driver's timestamp location handling.
	DueOn       string           `gorm:"size:10;index;not null"`
	Status      OccurrenceStatus `gorm:"size:16;index;not null;default:pending"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o Occurrence) Pending() bool { return o.Status == StatusPending }
