package ops

import (
	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/services"
)

// Services bundles every service the operations dispatch into.
type Services struct {
	Canon     *services.CanonService
	Proposals *services.ProposalService
	Scenes    *services.SceneService
	Memories  *services.MemoryService
	Archive   *services.ArchiveService
	Search    *services.SearchService
}

// RegisterAll populates the registry with the full operation set.
func RegisterAll(r *dispatch.Registry, s Services) {
	registerGraph(r, s)
	registerDocs(r, s)
	registerMemory(r, s)
	registerObjects(r, s)
	registerSearch(r, s)
}
