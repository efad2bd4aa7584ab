package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
	"github.com/canonkeep/canonkeep/internal/health"
)

// mockGraphDB is an in-memory GraphDB for service tests.
type mockGraphDB struct {
	multiverses   map[string]entities.Multiverse
	universes     map[string]entities.Universe
	entities      map[string]entities.Entity
	facts         map[string]entities.Fact
	events        map[string]entities.Event
	relationships map[string]entities.Relationship
	dependents    map[string]int64

	failWith error
}

func newMockGraphDB() *mockGraphDB {
	return &mockGraphDB{
		multiverses:   make(map[string]entities.Multiverse),
		universes:     make(map[string]entities.Universe),
		entities:      make(map[string]entities.Entity),
		facts:         make(map[string]entities.Fact),
		events:        make(map[string]entities.Event),
		relationships: make(map[string]entities.Relationship),
		dependents:    make(map[string]int64),
	}
}

func (m *mockGraphDB) Close(_ context.Context) error { return nil }

func (m *mockGraphDB) Health(_ context.Context) health.Status {
	return health.Healthy("mock")
}

func (m *mockGraphDB) UpsertMultiverse(_ context.Context, mv entities.Multiverse) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.multiverses[mv.ID] = mv
	return nil
}

func (m *mockGraphDB) UpsertUniverse(_ context.Context, u entities.Universe) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.universes[u.ID] = u
	return nil
}

func (m *mockGraphDB) MultiverseExists(_ context.Context, id string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.multiverses[id]
	return ok, nil
}

func (m *mockGraphDB) UniverseExists(_ context.Context, id string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.universes[id]
	return ok, nil
}

func (m *mockGraphDB) GetUniverse(_ context.Context, id string) (*entities.Universe, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if u, ok := m.universes[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *mockGraphDB) CountUniverseDependents(_ context.Context, id string) (int64, error) {
	return m.dependents[id], nil
}

func (m *mockGraphDB) DeleteUniverse(_ context.Context, id string, cascade bool) (int64, error) {
	delete(m.universes, id)
	if cascade {
		return m.dependents[id] + 1, nil
	}
	return 1, nil
}

func (m *mockGraphDB) UpsertEntity(_ context.Context, e entities.Entity) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.entities[e.ID] = e
	return nil
}

func (m *mockGraphDB) GetEntity(_ context.Context, id string) (*entities.Entity, error) {
	if e, ok := m.entities[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *mockGraphDB) EntityExists(_ context.Context, id string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.entities[id]
	return ok, nil
}

func (m *mockGraphDB) DeleteEntity(_ context.Context, id string) error {
	delete(m.entities, id)
	return nil
}

func (m *mockGraphDB) ListEntities(_ context.Context, universeID string, kind entities.EntityKind, limit int) ([]entities.Entity, error) {
	result := make([]entities.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		if e.UniverseID != universeID {
			continue
		}
		if kind != "" && e.Kind != kind {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockGraphDB) UpsertFact(_ context.Context, f entities.Fact) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.facts[f.ID] = f
	return nil
}

func (m *mockGraphDB) UpsertEvent(_ context.Context, e entities.Event) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockGraphDB) UpsertRelationship(_ context.Context, r entities.Relationship) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.relationships[r.ID] = r
	return nil
}

func (m *mockGraphDB) GetRelationships(_ context.Context, entityID string, relType entities.RelationType) ([]entities.Relationship, error) {
	result := make([]entities.Relationship, 0, len(m.relationships))
	for _, r := range m.relationships {
		if r.FromID != entityID && r.ToID != entityID {
			continue
		}
		if relType != "" && r.Type != relType {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// mockDocumentDB is an in-memory DocumentDB for service tests.
type mockDocumentDB struct {
	scenes       map[string]entities.Scene
	turns        []entities.Turn
	proposals    map[string]entities.ProposedChange
	workingState map[string]entities.WorkingState
	parties      map[string]entities.Party
	memories     map[string]entities.CharacterMemory

	failWith     error
	cleanupError error
}

func newMockDocumentDB() *mockDocumentDB {
	return &mockDocumentDB{
		scenes:       make(map[string]entities.Scene),
		proposals:    make(map[string]entities.ProposedChange),
		workingState: make(map[string]entities.WorkingState),
		parties:      make(map[string]entities.Party),
		memories:     make(map[string]entities.CharacterMemory),
	}
}

func (m *mockDocumentDB) Close(_ context.Context) error { return nil }

func (m *mockDocumentDB) Health(_ context.Context) health.Status {
	return health.Healthy("mock")
}

func (m *mockDocumentDB) UpsertScene(_ context.Context, s entities.Scene) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.scenes[s.ID] = s
	return nil
}

func (m *mockDocumentDB) GetScene(_ context.Context, id string) (*entities.Scene, error) {
	if s, ok := m.scenes[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *mockDocumentDB) ListScenes(_ context.Context, universeID string, status entities.SceneStatus, limit int) ([]entities.Scene, error) {
	result := make([]entities.Scene, 0, len(m.scenes))
	for _, s := range m.scenes {
		if s.UniverseID != universeID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		result = append(result, s)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockDocumentDB) InsertTurn(_ context.Context, t entities.Turn) error {
	m.turns = append(m.turns, t)
	return nil
}

func (m *mockDocumentDB) NextTurnNumber(_ context.Context, sceneID string) (int, error) {
	highest := 0
	for _, t := range m.turns {
		if t.SceneID == sceneID && t.Number > highest {
			highest = t.Number
		}
	}
	return highest + 1, nil
}

func (m *mockDocumentDB) InsertProposal(_ context.Context, p entities.ProposedChange) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.proposals[p.ID] = p
	return nil
}

func (m *mockDocumentDB) GetProposal(_ context.Context, id string) (*entities.ProposedChange, error) {
	if p, ok := m.proposals[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mockDocumentDB) ListProposals(_ context.Context, universeID string, status entities.ProposalStatus, limit int) ([]entities.ProposedChange, error) {
	result := make([]entities.ProposedChange, 0, len(m.proposals))
	for _, p := range m.proposals {
		if p.UniverseID != universeID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, p)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockDocumentDB) TransitionProposal(_ context.Context, id string, to entities.ProposalStatus, reviewedBy, note string, at time.Time) (bool, error) {
	p, ok := m.proposals[id]
	if !ok || p.Status != entities.ProposalPending {
		return false, nil
	}
	p.Status = to
	p.ReviewedBy = reviewedBy
	p.ReviewNote = note
	p.ReviewedAt = &at
	m.proposals[id] = p
	return true, nil
}

func (m *mockDocumentDB) SetWorkingState(_ context.Context, w entities.WorkingState) error {
	m.workingState[w.ID] = w
	return nil
}

func (m *mockDocumentDB) GetWorkingState(_ context.Context, sceneID, entityID string) (*entities.WorkingState, error) {
	for _, w := range m.workingState {
		if w.SceneID == sceneID && w.EntityID == entityID {
			return &w, nil
		}
	}
	return nil, nil
}

func (m *mockDocumentDB) DeleteWorkingStateForScene(_ context.Context, sceneID string) (int64, error) {
	if m.cleanupError != nil {
		return 0, m.cleanupError
	}
	var removed int64
	for id, w := range m.workingState {
		if w.SceneID == sceneID {
			delete(m.workingState, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockDocumentDB) UpsertParty(_ context.Context, p entities.Party) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.parties[p.ID] = p
	return nil
}

func (m *mockDocumentDB) GetParty(_ context.Context, id string) (*entities.Party, error) {
	if p, ok := m.parties[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mockDocumentDB) InsertMemory(_ context.Context, mem entities.CharacterMemory) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.memories[mem.ID] = mem
	return nil
}

func (m *mockDocumentDB) ListMemories(_ context.Context, ownerID string, limit int) ([]entities.CharacterMemory, error) {
	result := make([]entities.CharacterMemory, 0, len(m.memories))
	for _, mem := range m.memories {
		if mem.OwnerID == ownerID {
			result = append(result, mem)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockDocumentDB) GetMemories(_ context.Context, ids []string) ([]entities.CharacterMemory, error) {
	result := make([]entities.CharacterMemory, 0, len(ids))
	for _, id := range ids {
		if mem, ok := m.memories[id]; ok {
			result = append(result, mem)
		}
	}
	return result, nil
}

// mockVectorDB records upserts and returns canned search hits.
type mockVectorDB struct {
	upserted map[string][]float32
	hits     []ports.MemoryHit

	upsertError error
}

func newMockVectorDB() *mockVectorDB {
	return &mockVectorDB{upserted: make(map[string][]float32)}
}

func (m *mockVectorDB) Close(_ context.Context) error { return nil }

func (m *mockVectorDB) Health(_ context.Context) health.Status {
	return health.Healthy("mock")
}

func (m *mockVectorDB) EnsureCollection(_ context.Context, _ uint64) error { return nil }

func (m *mockVectorDB) UpsertMemory(_ context.Context, memoryID, _ string, embedding []float32) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	m.upserted[memoryID] = embedding
	return nil
}

func (m *mockVectorDB) SearchMemories(_ context.Context, _ []float32, _ string, _ int) ([]ports.MemoryHit, error) {
	return m.hits, nil
}

func (m *mockVectorDB) DeleteMemory(_ context.Context, memoryID string) error {
	delete(m.upserted, memoryID)
	return nil
}

// mockEmbedder hashes text length into a fixed vector.
type mockEmbedder struct {
	failWith error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var errStoreDown = errors.New("store down")

func containsIgnoreCase(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
