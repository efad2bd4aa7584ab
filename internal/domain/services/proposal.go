package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// ProposalService manages the proposed-change staging queue.
type ProposalService struct {
	docs ports.DocumentDB
}

// NewProposalService creates a ProposalService.
func NewProposalService(docs ports.DocumentDB) *ProposalService {
	return &ProposalService{docs: docs}
}

// Submit stages a proposed change in pending status.
func (s *ProposalService) Submit(ctx context.Context, universeID, submittedBy, operation string, payload map[string]any, evidence []string) (*entities.ProposedChange, error) {
	p := entities.ProposedChange{
		ID:          uuid.New().String(),
		UniverseID:  universeID,
		SubmittedBy: submittedBy,
		Operation:   operation,
		Payload:     payload,
		Evidence:    evidence,
		Status:      entities.ProposalPending,
		CreatedAt:   time.Now(),
	}
	if err := s.docs.InsertProposal(ctx, p); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("inserting proposal: %w", err))
	}
	return &p, nil
}

// Review transitions a pending proposal to approved or rejected. Terminal
// states are final: reviewing an already-reviewed proposal conflicts. The
// transition is a single conditional document update, so two concurrent
// reviews cannot both win.
func (s *ProposalService) Review(ctx context.Context, id string, to entities.ProposalStatus, reviewedBy, note string) (*entities.ProposedChange, error) {
	if !to.Terminal() {
		return nil, dispatch.Validation(
			fmt.Sprintf("cannot transition a proposal to %q", to),
			map[string]any{"status": string(to)},
		)
	}

	existing, err := s.docs.GetProposal(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading proposal: %w", err))
	}
	if existing == nil {
		return nil, dispatch.NotFound("proposal", id)
	}

	moved, err := s.docs.TransitionProposal(ctx, id, to, reviewedBy, note, time.Now())
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("transitioning proposal: %w", err))
	}
	if !moved {
		return nil, dispatch.Conflict(
			fmt.Sprintf("proposal %s is already %s", id, existing.Status),
			map[string]any{"proposal_id": id, "status": string(existing.Status)},
		)
	}

	updated, err := s.docs.GetProposal(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("reloading proposal: %w", err))
	}
	return updated, nil
}

// Get loads one proposal.
func (s *ProposalService) Get(ctx context.Context, id string) (*entities.ProposedChange, error) {
	p, err := s.docs.GetProposal(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading proposal: %w", err))
	}
	if p == nil {
		return nil, dispatch.NotFound("proposal", id)
	}
	return p, nil
}

// List lists proposals, optionally filtered by status.
func (s *ProposalService) List(ctx context.Context, universeID string, status entities.ProposalStatus, limit int) ([]entities.ProposedChange, error) {
	items, err := s.docs.ListProposals(ctx, universeID, status, limit)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("listing proposals: %w", err))
	}
	return items, nil
}
