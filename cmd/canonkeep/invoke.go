package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

func newInvokeCmd() *cobra.Command {
	var (
		agentType string
		agentID   string
		paramsRaw string
	)

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Invoke one operation as a given agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := entities.ParseAgentType(agentType)
			if err != nil {
				return err
			}

			var params map[string]any
			if paramsRaw != "" {
				if err := json.Unmarshal([]byte(paramsRaw), &params); err != nil {
					return fmt.Errorf("parsing params: %w", err)
				}
			}

			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				agent := entities.AgentContext{AgentID: agentID, AgentType: at}
				result, err := d.Dispatcher.Invoke(ctx, args[0], agent, params)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			})
		},
	}

	cmd.Flags().StringVar(&agentType, "agent-type", "", "Agent type to invoke as")
	cmd.Flags().StringVar(&agentID, "agent-id", "cli", "Agent identifier recorded in the audit trail")
	cmd.Flags().StringVarP(&paramsRaw, "params", "p", "", "Operation parameters as a JSON object")
	_ = cmd.MarkFlagRequired("agent-type")

	return cmd
}
