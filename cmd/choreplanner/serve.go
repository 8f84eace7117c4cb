package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chore-planner/internal/bot"
	"chore-planner/internal/logging"
	"chore-planner/internal/service"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot with the daily digest and reconcile jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.cfg.RequireTelegram(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			telegramBot, err := bot.New(a.cfg.TelegramToken, a.users, a.tasks, a.occs, a.plans, a.digest, &a.cfg, logging.Component(a.log, "bot"))
			if err != nil {
				return err
			}

			// Repair tasks left without a pending occurrence by an earlier crash.
			reconcile(ctx, a)

			loc, _ := a.cfg.Location()
			scheduler := service.NewSchedulerService(loc)
			if _, err := scheduler.ScheduleDaily(a.cfg.DigestTime, func() {
				jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				defer cancel()
				if err := telegramBot.SendDailyDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
					a.log.Error().Err(err).Msg("daily digest")
				}
			}); err != nil {
				return err
			}
			if interval := a.cfg.ReconcileInterval(); interval > 0 {
				if _, err := scheduler.ScheduleInterval(interval, func() { reconcile(ctx, a) }); err != nil {
					return err
				}
			}
			scheduler.Start()
			defer scheduler.Stop()

			a.log.Info().Str("digest_time", a.cfg.DigestTime).Int("jobs", scheduler.Entries()).Msg("chore planner started")
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Info().Msg("shutdown complete")
			return nil
		},
	}
}

func reconcile(ctx context.Context, a *app) {
	jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	n, err := a.occs.Reconcile(jobCtx)
	if err != nil {
		a.log.Error().Err(err).Int("repaired", n).Msg("reconcile")
		return
	}
	if n > 0 {
		a.log.Info().Int("repaired", n).Msg("reconcile")
	}
}
