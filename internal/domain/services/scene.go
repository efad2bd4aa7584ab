package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// SceneService manages narrative flow: scenes, turns, working state, and
// parties. Nothing here is canonical; promotion to canon goes through the
// proposal queue.
type SceneService struct {
	docs ports.DocumentDB
	log  *slog.Logger
}

// NewSceneService creates a SceneService.
func NewSceneService(docs ports.DocumentDB, log *slog.Logger) *SceneService {
	if log == nil {
		log = slog.Default()
	}
	return &SceneService{docs: docs, log: log}
}

// CreateScene opens a new scene.
func (s *SceneService) CreateScene(ctx context.Context, universeID, title, location string, participants []string) (*entities.Scene, error) {
	now := time.Now()
	sc := entities.Scene{
		ID:           uuid.New().String(),
		UniverseID:   universeID,
		Title:        title,
		Status:       entities.SceneOpen,
		Location:     location,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.docs.UpsertScene(ctx, sc); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("creating scene: %w", err))
	}
	return &sc, nil
}

// UpdateScene replaces a scene's mutable fields. Closed scenes stay closed.
func (s *SceneService) UpdateScene(ctx context.Context, id, title, location string, participants []string, properties map[string]any) (*entities.Scene, error) {
	sc, err := s.loadScene(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc.Status == entities.SceneClosed {
		return nil, dispatch.Conflict(
			fmt.Sprintf("scene %s is closed", id),
			map[string]any{"scene_id": id},
		)
	}

	if title != "" {
		sc.Title = title
	}
	if location != "" {
		sc.Location = location
	}
	if participants != nil {
		sc.Participants = participants
	}
	if properties != nil {
		sc.Properties = properties
	}
	sc.UpdatedAt = time.Now()

	if err := s.docs.UpsertScene(ctx, *sc); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("updating scene: %w", err))
	}
	return sc, nil
}

// CloseScene ends a scene and removes every working-state snapshot bound to
// it: working state's lifecycle is the scene's lifecycle.
func (s *SceneService) CloseScene(ctx context.Context, id string) (*entities.Scene, error) {
	sc, err := s.loadScene(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc.Status == entities.SceneClosed {
		return nil, dispatch.Conflict(
			fmt.Sprintf("scene %s is already closed", id),
			map[string]any{"scene_id": id},
		)
	}

	sc.Status = entities.SceneClosed
	sc.UpdatedAt = time.Now()
	if err := s.docs.UpsertScene(ctx, *sc); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("closing scene: %w", err))
	}

	removed, err := s.docs.DeleteWorkingStateForScene(ctx, id)
	if err != nil {
		// The scene is closed; orphaned snapshots are a cleanup concern,
		// not a failed close.
		s.log.WarnContext(ctx, "working state cleanup failed",
			slog.String("scene_id", id), slog.String("error", err.Error()))
		return sc, nil
	}
	if removed > 0 {
		s.log.InfoContext(ctx, "working state cleared",
			slog.String("scene_id", id), slog.Int64("removed", removed))
	}
	return sc, nil
}

// AddTurn appends an exchange to an open scene, numbering it after the
// scene's latest turn.
func (s *SceneService) AddTurn(ctx context.Context, sceneID, actorID, content string) (*entities.Turn, error) {
	sc, err := s.loadScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if sc.Status == entities.SceneClosed {
		return nil, dispatch.Conflict(
			fmt.Sprintf("scene %s is closed", sceneID),
			map[string]any{"scene_id": sceneID},
		)
	}

	number, err := s.docs.NextTurnNumber(ctx, sceneID)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("numbering turn: %w", err))
	}
	t := entities.Turn{
		ID:        uuid.New().String(),
		SceneID:   sceneID,
		Number:    number,
		ActorID:   actorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.docs.InsertTurn(ctx, t); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("inserting turn: %w", err))
	}
	return &t, nil
}

// GetScene loads one scene.
func (s *SceneService) GetScene(ctx context.Context, id string) (*entities.Scene, error) {
	return s.loadScene(ctx, id)
}

// ListScenes lists scenes, optionally filtered by status.
func (s *SceneService) ListScenes(ctx context.Context, universeID string, status entities.SceneStatus, limit int) ([]entities.Scene, error) {
	items, err := s.docs.ListScenes(ctx, universeID, status, limit)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("listing scenes: %w", err))
	}
	return items, nil
}

// SetWorkingState upserts a character's scene-scoped resource snapshot.
func (s *SceneService) SetWorkingState(ctx context.Context, sceneID, entityID string, resources map[string]any) (*entities.WorkingState, error) {
	sc, err := s.loadScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if sc.Status == entities.SceneClosed {
		return nil, dispatch.Conflict(
			fmt.Sprintf("scene %s is closed", sceneID),
			map[string]any{"scene_id": sceneID},
		)
	}

	w := entities.WorkingState{
		ID:        sceneID + ":" + entityID,
		SceneID:   sceneID,
		EntityID:  entityID,
		Resources: resources,
		UpdatedAt: time.Now(),
	}
	if err := s.docs.SetWorkingState(ctx, w); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("setting working state: %w", err))
	}
	return &w, nil
}

// GetWorkingState loads a character's snapshot within a scene.
func (s *SceneService) GetWorkingState(ctx context.Context, sceneID, entityID string) (*entities.WorkingState, error) {
	w, err := s.docs.GetWorkingState(ctx, sceneID, entityID)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading working state: %w", err))
	}
	if w == nil {
		return nil, dispatch.NotFound("working state", sceneID+":"+entityID)
	}
	return w, nil
}

func (s *SceneService) loadScene(ctx context.Context, id string) (*entities.Scene, error) {
	sc, err := s.docs.GetScene(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading scene: %w", err))
	}
	if sc == nil {
		return nil, dispatch.NotFound("scene", id)
	}
	return sc, nil
}
