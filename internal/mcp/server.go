// Package mcp exposes the dispatch pipeline over the Model Context
// Protocol. One server speaks for one agent: the identity is pinned at
// startup and every tool call inherits it, so a connected client can never
// escalate by claiming a different agent type mid-session.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/health"
)

// HealthFunc probes every configured store and aggregates the result.
type HealthFunc func(ctx context.Context) health.Report

type Server struct {
	dispatcher *dispatch.Dispatcher
	agent      entities.AgentContext
	probe      HealthFunc
	mcp        *sdk.Server
}

func NewServer(dispatcher *dispatch.Dispatcher, agent entities.AgentContext, probe HealthFunc, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		agent:      agent,
		probe:      probe,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "canonkeep",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
