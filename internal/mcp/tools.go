package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/canonkeep/canonkeep/internal/authority"
	"github.com/canonkeep/canonkeep/internal/health"
)

type InvokeInput struct {
	Operation string         `json:"operation" jsonschema:"operation name, e.g. graph_get_entity"`
	Params    map[string]any `json:"params,omitempty" jsonschema:"operation parameters"`
}

type InvokeOutput struct {
	Result any `json:"result"`
}

type ListOperationsInput struct{}

type OperationOutput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Store       string   `json:"store"`
	AllowedTo   []string `json:"allowed_to"`
}

type ListOperationsOutput struct {
	Agent      string            `json:"agent"`
	AgentType  string            `json:"agent_type"`
	Operations []OperationOutput `json:"operations"`
}

type HealthInput struct{}

type HealthOutput struct {
	State   string                   `json:"state"`
	Version string                   `json:"version"`
	Stores  map[string]health.Status `json:"stores"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "invoke",
		Description: "Invoke a named operation as the connected agent",
	}, s.handleInvoke)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_operations",
		Description: "List every operation and who may call it",
	}, s.handleListOperations)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "health",
		Description: "Report per-store connectivity",
	}, s.handleHealth)
}

func (s *Server) handleInvoke(ctx context.Context, req *sdk.CallToolRequest, input InvokeInput) (*sdk.CallToolResult, InvokeOutput, error) {
	result, err := s.dispatcher.Invoke(ctx, input.Operation, s.agent, input.Params)
	if err != nil {
		return nil, InvokeOutput{}, err
	}
	return nil, InvokeOutput{Result: result}, nil
}

func (s *Server) handleListOperations(ctx context.Context, req *sdk.CallToolRequest, input ListOperationsInput) (*sdk.CallToolResult, ListOperationsOutput, error) {
	registry := s.dispatcher.Registry()
	matrix := s.dispatcher.Matrix()

	out := ListOperationsOutput{
		Agent:     s.agent.AgentID,
		AgentType: string(s.agent.AgentType),
	}
	for _, name := range registry.Names() {
		op, _ := registry.Get(name)
		out.Operations = append(out.Operations, OperationOutput{
			Name:        op.Name,
			Description: op.Description,
			Store:       op.Store,
			AllowedTo:   allowedNames(matrix, op.Name),
		})
	}
	return nil, out, nil
}

func (s *Server) handleHealth(ctx context.Context, req *sdk.CallToolRequest, input HealthInput) (*sdk.CallToolResult, HealthOutput, error) {
	report := s.probe(ctx)
	return nil, HealthOutput{
		State:   string(report.State),
		Version: report.Version,
		Stores:  report.Stores,
	}, nil
}

func allowedNames(matrix *authority.Matrix, operation string) []string {
	agents, ok := matrix.AllowedAgents(operation)
	if !ok || len(agents) == 0 {
		return nil
	}
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, string(a))
	}
	return names
}
