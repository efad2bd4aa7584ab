package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// CreateParty groups player-controlled entities.
func (s *SceneService) CreateParty(ctx context.Context, name string, memberIDs []string) (*entities.Party, error) {
	now := time.Now()
	p := entities.Party{
		ID:        uuid.New().String(),
		Name:      name,
		MemberIDs: memberIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docs.UpsertParty(ctx, p); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("creating party: %w", err))
	}
	return &p, nil
}

// SplitParty carves a labeled sub-group out of a party. Every split member
// must belong to the party.
func (s *SceneService) SplitParty(ctx context.Context, partyID, label string, memberIDs []string) (*entities.Party, error) {
	p, err := s.loadParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	members := make(map[string]struct{}, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		members[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := members[id]; !ok {
			return nil, dispatch.Validation(
				fmt.Sprintf("entity %s is not a member of party %s", id, partyID),
				map[string]any{"party_id": partyID, "entity_id": id},
			)
		}
	}

	p.Splits = append(p.Splits, entities.Split{
		ID:        uuid.New().String(),
		Label:     label,
		MemberIDs: memberIDs,
		CreatedAt: time.Now(),
	})
	p.UpdatedAt = time.Now()

	if err := s.docs.UpsertParty(ctx, *p); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("splitting party: %w", err))
	}
	return p, nil
}

// MergeParty dissolves a split, returning its members to the main group.
func (s *SceneService) MergeParty(ctx context.Context, partyID, splitID string) (*entities.Party, error) {
	p, err := s.loadParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	kept := p.Splits[:0]
	found := false
	for _, split := range p.Splits {
		if split.ID == splitID {
			found = true
			continue
		}
		kept = append(kept, split)
	}
	if !found {
		return nil, dispatch.NotFound("party split", splitID)
	}
	p.Splits = kept
	p.UpdatedAt = time.Now()

	if err := s.docs.UpsertParty(ctx, *p); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("merging party: %w", err))
	}
	return p, nil
}

// GetParty loads one party.
func (s *SceneService) GetParty(ctx context.Context, id string) (*entities.Party, error) {
	return s.loadParty(ctx, id)
}

func (s *SceneService) loadParty(ctx context.Context, id string) (*entities.Party, error) {
	p, err := s.docs.GetParty(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading party: %w", err))
	}
	if p == nil {
		return nil, dispatch.NotFound("party", id)
	}
	return p, nil
}
