package service

import (
	"context"
	"time"

	"chore-planner/internal/model"
	"chore-planner/internal/repository"
)

// ErrNotPending is returned when a transition is attempted on a completed
// or skipped occurrence.
var ErrNotPending = repository.ErrNotPending

// TaskStore is the slice of the task repository the services use.
type TaskStore interface {
	CreateWithOccurrence(ctx context.Context, task *model.Task, dueOn string) (*model.Occurrence, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Task, error)
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	ListWithoutPending(ctx context.Context) ([]model.Task, error)
	Delete(ctx context.Context, userID, taskID uint) error
}

// OccurrenceStore is the slice of the occurrence repository the services use.
type OccurrenceStore interface {
	FindForUser(ctx context.Context, userID, occurrenceID uint) (*model.Occurrence, error)
	CompletePending(ctx context.Context, occ *model.Occurrence, at time.Time) error
	SkipPending(ctx context.Context, occ *model.Occurrence) error
	EnsurePending(ctx context.Context, taskID uint, dueOn string) (*model.Occurrence, bool, error)
	ListPendingByUser(ctx context.Context, userID uint) ([]model.Occurrence, error)
	ListCompletedSince(ctx context.Context, userID uint, since time.Time) ([]model.Occurrence, error)
}

// AreaStore resolves area names.
type AreaStore interface {
	GetOrCreate(ctx context.Context, userID uint, name string) (*model.Area, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Area, error)
}

var (
	_ TaskStore       = (*repository.TaskRepository)(nil)
	_ OccurrenceStore = (*repository.OccurrenceRepository)(nil)
	_ AreaStore       = (*repository.AreaRepository)(nil)
)
