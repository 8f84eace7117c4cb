package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chore-planner/internal/model"
	"chore-planner/internal/schedule"
)

// TaskInput represents data required to create a chore.
type TaskInput struct {
	Title            string
	Area             string
	Frequency        string
	EstimatedMinutes *int
	PreferredWeekday *int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks TaskStore
	areas AreaStore
	clock schedule.Clock
	log   zerolog.Logger
}

func NewTaskService(tasks TaskStore, areas AreaStore, clock schedule.Clock, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, areas: areas, clock: clock, log: log}
}

// CreateTask validates the input, stores the task and schedules its first occurrence.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, *model.Occurrence, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, errors.New("title is required")
	}

	freq, err := schedule.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, nil, err
	}
	var weekday *time.Weekday
	if input.PreferredWeekday != nil {
		wd := time.Weekday(*input.PreferredWeekday)
		weekday = &wd
	}
	if err := schedule.ValidateTask(freq, input.EstimatedMinutes, weekday); err != nil {
		return nil, nil, err
	}

	var areaID *uint
	if name := strings.TrimSpace(input.Area); name != "" {
		area, err := s.areas.GetOrCreate(ctx, user.ID, name)
		if err != nil {
			return nil, nil, err
		}
		if area != nil {
			areaID = &area.ID
		}
	}

	due, err := schedule.First(freq, s.clock.Today(), weekday)
	if err != nil {
		return nil, nil, err
	}

	task := model.Task{
		UserID:           user.ID,
		AreaID:           areaID,
		Title:            title,
		Frequency:        freq.String(),
		EstimatedMinutes: input.EstimatedMinutes,
		PreferredWeekday: input.PreferredWeekday,
	}
	occ, err := s.tasks.CreateWithOccurrence(ctx, &task, schedule.FormatDate(due))
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Uint("task_id", task.ID).
		Str("frequency", task.Frequency).Str("due", occ.DueOn).Msg("task created")
	return &task, occ, nil
}

func (s *TaskService) ListTasks(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.tasks.ListByUser(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, user.ID, taskID)
}

// DeleteTask removes a task and its history. Only ever user initiated.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	if err := s.tasks.Delete(ctx, user.ID, taskID); err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	s.log.Info().Uint("user_id", user.ID).Uint("task_id", taskID).Msg("task deleted")
	return nil
}

// AreaNames maps area IDs to names for display.
func (s *TaskService) AreaNames(ctx context.Context, user *model.User) (map[uint]string, error) {
	areas, err := s.areas.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(areas))
	for _, a := range areas {
		names[a.ID] = a.Name
	}
	return names, nil
}
