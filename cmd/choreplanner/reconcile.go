package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func reconcileCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Create missing pending occurrences once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.occs.Reconcile(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d task(s)\n", n)
			return err
		},
	}
}
