package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

func newAuditCmd() *cobra.Command {
	var (
		operation string
		agentID   string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent dispatch records from the audit store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				var (
					records []entities.AuditRecord
					err     error
				)
				switch {
				case operation != "":
					records, err = d.Sink.FindByOperation(ctx, operation, limit)
				case agentID != "":
					records, err = d.Sink.FindByAgent(ctx, agentID, limit)
				default:
					records, err = d.Sink.Recent(ctx, limit)
				}
				if err != nil {
					return err
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			})
		},
	}

	cmd.Flags().StringVar(&operation, "operation", "", "Filter by operation name")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Filter by agent identifier")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to return")

	return cmd
}
