package ops

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

func registerDocs(r *dispatch.Registry, s Services) {
	r.MustRegister(dispatch.Operation{
		Name:        "doc_create_scene",
		Description: "Open a new scene",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.String("title"),
			schema.String("location").Optional(),
			schema.List("participants", schema.UUID("")).Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.CreateScene(ctx, getString(p, "universe_id"), getString(p, "title"), getString(p, "location"), getStringList(p, "participants"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_update_scene",
		Description: "Update an open scene's mutable fields",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("scene_id"),
			schema.String("title").Optional(),
			schema.String("location").Optional(),
			schema.List("participants", schema.UUID("")).Optional(),
			schema.Any("properties").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.UpdateScene(ctx, getString(p, "scene_id"), getString(p, "title"), getString(p, "location"), getStringList(p, "participants"), getMap(p, "properties"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_close_scene",
		Description: "Close a scene and clear its working state",
		Store:       "document",
		Shape:       schema.NewShape(schema.UUID("scene_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.CloseScene(ctx, getString(p, "scene_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_add_turn",
		Description: "Append an exchange to an open scene",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("scene_id"),
			schema.UUID("actor_id"),
			schema.String("content"),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.AddTurn(ctx, getString(p, "scene_id"), getString(p, "actor_id"), getString(p, "content"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_get_scene",
		Description: "Load a scene by ID",
		Store:       "document",
		Shape:       schema.NewShape(schema.UUID("scene_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.GetScene(ctx, getString(p, "scene_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_list_scenes",
		Description: "List scenes in a universe",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.Enum("status", string(entities.SceneOpen), string(entities.SceneClosed)).Optional(),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.ListScenes(ctx, getString(p, "universe_id"), entities.SceneStatus(getString(p, "status")), getInt(p, "limit"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_submit_proposal",
		Description: "Stage a proposed change to canonical truth",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.String("operation"),
			schema.Any("payload"),
			schema.List("evidence", schema.String("")).Optional(),
		),
		Handler: func(ctx context.Context, agent entities.AgentContext, p map[string]any) (any, error) {
			return s.Proposals.Submit(ctx, getString(p, "universe_id"), agent.AgentID, getString(p, "operation"), getMap(p, "payload"), getStringList(p, "evidence"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_review_proposal",
		Description: "Approve or reject a pending proposal",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("proposal_id"),
			schema.Enum("status", string(entities.ProposalApproved), string(entities.ProposalRejected)),
			schema.String("note").Optional(),
		),
		Handler: func(ctx context.Context, agent entities.AgentContext, p map[string]any) (any, error) {
			return s.Proposals.Review(ctx, getString(p, "proposal_id"), entities.ProposalStatus(getString(p, "status")), agent.AgentID, getString(p, "note"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_get_proposal",
		Description: "Load a proposal by ID",
		Store:       "document",
		Shape:       schema.NewShape(schema.UUID("proposal_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Proposals.Get(ctx, getString(p, "proposal_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_list_proposals",
		Description: "List proposals in a universe",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.Enum("status", string(entities.ProposalPending), string(entities.ProposalApproved), string(entities.ProposalRejected)).Optional(),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Proposals.List(ctx, getString(p, "universe_id"), entities.ProposalStatus(getString(p, "status")), getInt(p, "limit"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_set_working_state",
		Description: "Upsert a character's scene-scoped resource snapshot",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("scene_id"),
			schema.UUID("entity_id"),
			schema.Any("resources"),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.SetWorkingState(ctx, getString(p, "scene_id"), getString(p, "entity_id"), getMap(p, "resources"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_get_working_state",
		Description: "Load a character's snapshot within a scene",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("scene_id"),
			schema.UUID("entity_id"),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.GetWorkingState(ctx, getString(p, "scene_id"), getString(p, "entity_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_create_party",
		Description: "Group player-controlled entities",
		Store:       "document",
		Shape: schema.NewShape(
			schema.String("name"),
			schema.List("member_ids", schema.UUID("")),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.CreateParty(ctx, getString(p, "name"), getStringList(p, "member_ids"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_split_party",
		Description: "Carve a labeled sub-group out of a party",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("party_id"),
			schema.String("label"),
			schema.List("member_ids", schema.UUID("")),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.SplitParty(ctx, getString(p, "party_id"), getString(p, "label"), getStringList(p, "member_ids"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_merge_party",
		Description: "Dissolve a split back into the main group",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("party_id"),
			schema.UUID("split_id"),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.MergeParty(ctx, getString(p, "party_id"), getString(p, "split_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "doc_get_party",
		Description: "Load a party by ID",
		Store:       "document",
		Shape:       schema.NewShape(schema.UUID("party_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Scenes.GetParty(ctx, getString(p, "party_id"))
		},
	})
}
