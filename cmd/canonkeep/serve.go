package main

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var (
		agentType string
		agentID   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the operation set over MCP on stdio",
		Long: `Serve the operation set over MCP on stdio.

The server speaks for exactly one agent. The identity given here is pinned
for the life of the session; every tool call is authorized as this agent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := entities.ParseAgentType(agentType)
			if err != nil {
				return err
			}
			if agentID == "" {
				return fmt.Errorf("agent-id is required")
			}

			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				agent := entities.AgentContext{AgentID: agentID, AgentType: at}
				server := mcp.NewServer(d.Dispatcher, agent, d.Probe, version)
				return server.Run(ctx, &sdk.StdioTransport{})
			})
		},
	}

	cmd.Flags().StringVar(&agentType, "agent-type", "", "Agent type: loremaster, narrator, player, indexer, or system")
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Stable identifier for the connected agent")
	_ = cmd.MarkFlagRequired("agent-type")
	_ = cmd.MarkFlagRequired("agent-id")

	return cmd
}
