package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"chore-planner/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedTask(t *testing.T, db *gorm.DB, userID uint, dueOn string) (*model.Task, *model.Occurrence) {
	t.Helper()
	task := &model.Task{UserID: userID, Title: "Water plants", Frequency: "weekly"}
	occ, err := NewTaskRepository(db).CreateWithOccurrence(context.Background(), task, dueOn)
	if err != nil {
		t.Fatalf("CreateWithOccurrence error: %v", err)
	}
	return task, occ
}

func TestEnsurePendingIsIdempotent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOccurrenceRepository(db)
	task, first := seedTask(t, db, 1, "2026-10-14")

	got, created, err := repo.EnsurePending(ctx, task.ID, "2026-10-21")
	if err != nil {
		t.Fatalf("EnsurePending error: %v", err)
	}
	if created || got.ID != first.ID {
		t.Fatalf("EnsurePending created=%v id=%d, want existing %d", created, got.ID, first.ID)
	}

	if err := repo.CompletePending(ctx, first, time.Now()); err != nil {
		t.Fatalf("CompletePending error: %v", err)
	}
	for i := 0; i < 2; i++ {
		got, created, err = repo.EnsurePending(ctx, task.ID, "2026-10-21")
		if err != nil {
			t.Fatalf("EnsurePending #%d error: %v", i, err)
		}
		if created != (i == 0) {
			t.Fatalf("EnsurePending #%d created = %v", i, created)
		}
		if got.DueOn != "2026-10-21" {
			t.Fatalf("DueOn = %s", got.DueOn)
		}
	}

	history, err := repo.ListByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("ListByTask error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
}

func TestSinglePendingPerTaskEnforced(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	task, _ := seedTask(t, db, 1, "2026-10-14")

	dup := model.Occurrence{TaskID: task.ID, DueOn: "2026-10-21", Status: model.StatusPending}
	err := db.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second pending insert err = %v, want ErrDuplicatedKey", err)
	}

	done := model.Occurrence{TaskID: task.ID, DueOn: "2026-10-07", Status: model.StatusCompleted}
	if err := db.Create(&done).Error; err != nil {
		t.Fatalf("completed history insert error: %v", err)
	}
}

func TestTransitionsOnlyFromPending(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOccurrenceRepository(db)
	_, occ := seedTask(t, db, 1, "2026-10-14")

	if err := repo.CompletePending(ctx, occ, time.Now()); err != nil {
		t.Fatalf("CompletePending error: %v", err)
	}
	if occ.Status != model.StatusCompleted || occ.CompletedAt == nil {
		t.Fatalf("occurrence not updated in memory: %+v", occ)
	}

	again := &model.Occurrence{ID: occ.ID}
	if err := repo.CompletePending(ctx, again, time.Now()); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second complete err = %v, want ErrNotPending", err)
	}
	if err := repo.SkipPending(ctx, again); !errors.Is(err, ErrNotPending) {
		t.Fatalf("skip completed err = %v, want ErrNotPending", err)
	}
}

func TestFindForUserScopesByOwner(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOccurrenceRepository(db)
	_, occ := seedTask(t, db, 1, "2026-10-14")

	if _, err := repo.FindForUser(ctx, 1, occ.ID); err != nil {
		t.Fatalf("FindForUser owner error: %v", err)
	}
	if _, err := repo.FindForUser(ctx, 2, occ.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindForUser stranger err = %v, want ErrNotFound", err)
	}
}

func TestListWithoutPendingAndCompletedSince(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	occRepo := NewOccurrenceRepository(db)
	taskRepo := NewTaskRepository(db)

	scheduled, _ := seedTask(t, db, 1, "2026-10-20")
	orphan, occ := seedTask(t, db, 1, "2026-10-14")
	doneAt := time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
	if err := occRepo.CompletePending(ctx, occ, doneAt); err != nil {
		t.Fatalf("CompletePending error: %v", err)
	}

	tasks, err := taskRepo.ListWithoutPending(ctx)
	if err != nil {
		t.Fatalf("ListWithoutPending error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != orphan.ID {
		t.Fatalf("ListWithoutPending = %+v, want only task %d", tasks, orphan.ID)
	}

	pending, err := occRepo.ListPendingByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListPendingByUser error: %v", err)
	}
	if len(pending) != 1 || pending[0].TaskID != scheduled.ID {
		t.Fatalf("pending = %+v", pending)
	}

	since := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	completed, err := occRepo.ListCompletedSince(ctx, 1, since)
	if err != nil {
		t.Fatalf("ListCompletedSince error: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != occ.ID {
		t.Fatalf("completed = %+v", completed)
	}
	completed, err = occRepo.ListCompletedSince(ctx, 1, since.AddDate(0, 0, 1))
	if err != nil || len(completed) != 0 {
		t.Fatalf("completed tomorrow = %+v, %v", completed, err)
	}
}

func TestDeleteTaskRemovesHistory(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	taskRepo := NewTaskRepository(db)
	task, _ := seedTask(t, db, 1, "2026-10-14")

	if err := taskRepo.Delete(ctx, 2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete by stranger err = %v, want ErrNotFound", err)
	}
	if err := taskRepo.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	occs, err := NewOccurrenceRepository(db).ListByTask(ctx, task.ID)
	if err != nil || len(occs) != 0 {
		t.Fatalf("occurrences after delete = %+v, %v", occs, err)
	}
}

func TestUserBudgetAndAreas(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	u, err := users.UpsertFromTelegram(ctx, 42, "Ada", "", "ada")
	if err != nil {
		t.Fatalf("UpsertFromTelegram error: %v", err)
	}
	if err := users.UpdateBudget(ctx, u, 120, true); err != nil {
		t.Fatalf("UpdateBudget error: %v", err)
	}
	got, err := users.FindByTelegramID(ctx, 42)
	if err != nil {
		t.Fatalf("FindByTelegramID error: %v", err)
	}
	if got.DailyBudgetMinutes != 120 || !got.BudgetDisabled {
		t.Fatalf("budget = %d disabled=%v", got.DailyBudgetMinutes, got.BudgetDisabled)
	}
	if _, err := users.FindByTelegramID(ctx, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v", err)
	}

	areas := NewAreaRepository(db)
	a1, err := areas.GetOrCreate(ctx, u.ID, "Kitchen")
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	a2, err := areas.GetOrCreate(ctx, u.ID, "Kitchen")
	if err != nil || a2.ID != a1.ID {
		t.Fatalf("GetOrCreate second = %+v, %v", a2, err)
	}
	if a, err := areas.GetOrCreate(ctx, u.ID, ""); a != nil || err != nil {
		t.Fatalf("empty area = %+v, %v", a, err)
	}
}
