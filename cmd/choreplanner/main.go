package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "choreplanner",
		Short:         "Household chore planner with a daily time budget",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(planCmd(&configPath))
	rootCmd.AddCommand(reconcileCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
