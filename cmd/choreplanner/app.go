package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"chore-planner/internal/config"
	"chore-planner/internal/logging"
	"chore-planner/internal/repository"
	"chore-planner/internal/schedule"
	"chore-planner/internal/service"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	db     *gorm.DB
	clock  schedule.Clock
	users  *repository.UserRepository
	tasks  *service.TaskService
	occs   *service.OccurrenceService
	plans  *service.PlannerService
	digest *service.DigestService
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	clock := schedule.SystemClock{Location: loc}

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	occRepo := repository.NewOccurrenceRepository(db)

	planner := service.NewPlannerService(taskRepo, occRepo, schedule.GreedyAllocator{}, clock,
		service.BudgetSettings{Minutes: cfg.DailyBudgetMinutes, Enabled: cfg.BudgetEnabled}, cfg.FocusCount)

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		clock:  clock,
		users:  userRepo,
		tasks:  service.NewTaskService(taskRepo, areaRepo, clock, logging.Component(log, "tasks")),
		occs:   service.NewOccurrenceService(taskRepo, occRepo, clock, logging.Component(log, "occurrences")),
		plans:  planner,
		digest: service.NewDigestService(planner),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
