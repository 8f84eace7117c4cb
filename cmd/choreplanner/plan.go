package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"chore-planner/internal/render"
	"chore-planner/internal/repository"
)

func planCmd(configPath *string) *cobra.Command {
	var telegramID int64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print today's plan for a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.users.FindByTelegramID(cmd.Context(), telegramID)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no member with telegram id %d", telegramID)
			}
			if err != nil {
				return err
			}

			plan, err := a.plans.Plan(cmd.Context(), user)
			if err != nil {
				return err
			}
			return render.Plan(cmd.OutOrStdout(), plan, render.DefaultTheme)
		},
	}

	cmd.Flags().Int64Var(&telegramID, "telegram-id", 0, "Telegram user id of the member")
	_ = cmd.MarkFlagRequired("telegram-id")

	return cmd
}
