// Package main provides the entry point for the canonkeep CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0-dev"
	configPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "canonkeep",
		Short:   "Authority-enforced data layer for multi-agent narrative worlds",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "canonkeep.yaml", "Path to the configuration file")

	rootCmd.AddCommand(
		newServeCmd(),
		newInvokeCmd(),
		newOpsCmd(),
		newHealthCmd(),
		newAuditCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
