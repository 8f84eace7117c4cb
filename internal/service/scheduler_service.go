package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"chore-planner/internal/config"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Entries reports how many jobs are registered.
func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

func buildDailySpec(timeStr string) (string, error) {
	hour, minute, err := config.ParseClock(timeStr)
	if err != nil {
		return "", err
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
