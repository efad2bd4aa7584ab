package services

import (
	"context"
	"fmt"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// CanonizeProposal applies an approved proposed change to the canonical
// graph. Approval and canonization are two separately dispatched operations:
// approval unblocks the write procedurally, it never bypasses the authority
// check on the write itself. The write is the same idempotent path as a
// direct canonical mutation, so re-running a canonization after a timeout is
// safe.
func (s *CanonService) CanonizeProposal(ctx context.Context, proposalID string) (any, error) {
	p, err := s.docs.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading proposal: %w", err))
	}
	if p == nil {
		return nil, dispatch.NotFound("proposal", proposalID)
	}
	if p.Status != entities.ProposalApproved {
		return nil, dispatch.Conflict(
			fmt.Sprintf("proposal %s is %s; only approved proposals can be canonized", proposalID, p.Status),
			map[string]any{"proposal_id": proposalID, "status": string(p.Status)},
		)
	}

	kind, _ := p.Payload["kind"].(string)
	switch kind {
	case "create_entity":
		return s.CreateEntity(ctx, EntityInput{
			UniverseID: p.UniverseID,
			Name:       str(p.Payload, "name"),
			Kind:       entities.EntityKind(str(p.Payload, "entity_kind")),
			CanonLevel: entities.CanonCanon,
			Provenance: entities.ProvenanceGM,
			Properties: obj(p.Payload, "properties"),
		})
	case "create_fact":
		return s.CreateFact(ctx, FactInput{
			UniverseID: p.UniverseID,
			Statement:  str(p.Payload, "statement"),
			SubjectID:  str(p.Payload, "subject_id"),
			CanonLevel: entities.CanonCanon,
			Provenance: entities.ProvenanceGM,
			Properties: obj(p.Payload, "properties"),
		})
	case "create_relationship":
		return s.CreateRelationship(ctx,
			str(p.Payload, "from_id"),
			str(p.Payload, "to_id"),
			entities.RelationType(str(p.Payload, "type")),
			obj(p.Payload, "properties"),
		)
	case "update_entity":
		return s.UpdateEntity(ctx,
			str(p.Payload, "entity_id"),
			entities.CanonLevel(str(p.Payload, "canon_level")),
			obj(p.Payload, "properties"),
		)
	default:
		return nil, dispatch.Validation(
			fmt.Sprintf("proposal payload kind %q is not canonizable", kind),
			map[string]any{"proposal_id": proposalID, "kind": kind},
		)
	}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func obj(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}
