package ports

import (
	"context"
	"time"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/health"
)

// DocumentDB holds the narrative working set: scenes, turns, proposed
// changes, working state, parties, and memory records. Single-document
// writes rely on the store's native atomicity; the core adds no cross-call
// transactions.
type DocumentDB interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) health.Status

	// Scenes and turns.
	UpsertScene(ctx context.Context, s entities.Scene) error
	GetScene(ctx context.Context, id string) (*entities.Scene, error)
	ListScenes(ctx context.Context, universeID string, status entities.SceneStatus, limit int) ([]entities.Scene, error)
	InsertTurn(ctx context.Context, t entities.Turn) error
	// NextTurnNumber returns 1 + the highest turn number in the scene.
	NextTurnNumber(ctx context.Context, sceneID string) (int, error)

	// Proposed changes.
	InsertProposal(ctx context.Context, p entities.ProposedChange) error
	GetProposal(ctx context.Context, id string) (*entities.ProposedChange, error)
	ListProposals(ctx context.Context, universeID string, status entities.ProposalStatus, limit int) ([]entities.ProposedChange, error)
	// TransitionProposal atomically moves a pending proposal to a terminal
	// status. It returns false when the proposal was not pending, without
	// modifying it.
	TransitionProposal(ctx context.Context, id string, to entities.ProposalStatus, reviewedBy, note string, at time.Time) (bool, error)

	// Working state, scoped to a scene.
	SetWorkingState(ctx context.Context, w entities.WorkingState) error
	GetWorkingState(ctx context.Context, sceneID, entityID string) (*entities.WorkingState, error)
	// DeleteWorkingStateForScene removes every working-state snapshot bound
	// to the scene and returns the number removed.
	DeleteWorkingStateForScene(ctx context.Context, sceneID string) (int64, error)

	// Parties.
	UpsertParty(ctx context.Context, p entities.Party) error
	GetParty(ctx context.Context, id string) (*entities.Party, error)

	// Memory records. The paired embeddings live in the vector store.
	InsertMemory(ctx context.Context, m entities.CharacterMemory) error
	ListMemories(ctx context.Context, ownerID string, limit int) ([]entities.CharacterMemory, error)
	GetMemories(ctx context.Context, ids []string) ([]entities.CharacterMemory, error)
}
