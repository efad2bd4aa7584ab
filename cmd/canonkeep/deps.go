package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/canonkeep/canonkeep/internal/application/ops"
	"github.com/canonkeep/canonkeep/internal/audit"
	"github.com/canonkeep/canonkeep/internal/authority"
	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
	"github.com/canonkeep/canonkeep/internal/domain/services"
	"github.com/canonkeep/canonkeep/internal/health"
	"github.com/canonkeep/canonkeep/internal/infrastructure/auditstore/sqlite"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
	"github.com/canonkeep/canonkeep/internal/infrastructure/documentdb/mongo"
	embedder "github.com/canonkeep/canonkeep/internal/infrastructure/embedder/openai"
	"github.com/canonkeep/canonkeep/internal/infrastructure/graphdb/neo4j"
	"github.com/canonkeep/canonkeep/internal/infrastructure/objectstore/minio"
	"github.com/canonkeep/canonkeep/internal/infrastructure/searchindex/bleve"
	"github.com/canonkeep/canonkeep/internal/infrastructure/vectordb/qdrant"
)

// Deps holds the fully wired dispatch pipeline for commands.
type Deps struct {
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
	Sink       ports.AuditSink
	Probe      func(ctx context.Context) health.Report
}

// withDeps loads config, connects every store, builds the dispatcher, and
// calls fn. Connections are torn down when fn returns.
func withDeps(ctx context.Context, fn func(context.Context, *Deps) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stdout carries the MCP transport; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	sink, err := sqlite.NewSink(ctx, cfg.Audit)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	defer sink.Close()

	graph, err := neo4j.NewClient(ctx, cfg.Neo4j)
	if err != nil {
		return fmt.Errorf("connecting graph store: %w", err)
	}
	defer graph.Close(ctx)

	docs, err := mongo.NewClient(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connecting document store: %w", err)
	}
	defer docs.Close(ctx)

	vectors, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("connecting vector store: %w", err)
	}
	defer vectors.Close(ctx)

	objects, err := minio.NewStore(ctx, cfg.Minio)
	if err != nil {
		return fmt.Errorf("connecting object store: %w", err)
	}
	defer objects.Close(ctx)

	index, err := bleve.NewIndex(cfg.Bleve)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer index.Close(ctx)

	var emb ports.Embedder
	if cfg.Embedder.APIKey != "" {
		e, err := embedder.NewEmbedder(cfg.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		if err := vectors.EnsureCollection(ctx, uint64(embedder.VectorSize)); err != nil {
			return fmt.Errorf("ensuring vector collection: %w", err)
		}
		emb = e
	}

	svcs := ops.Services{
		Canon:     services.NewCanonService(graph, docs, logger),
		Proposals: services.NewProposalService(docs),
		Scenes:    services.NewSceneService(docs, logger),
		Memories:  services.NewMemoryService(docs, vectors, emb, logger),
		Archive:   services.NewArchiveService(objects),
		Search:    services.NewSearchService(index),
	}

	registry := dispatch.NewRegistry()
	ops.RegisterAll(registry, svcs)

	matrix, err := authority.NewMatrix(authority.DefaultRules())
	if err != nil {
		return fmt.Errorf("compiling authority matrix: %w", err)
	}

	dispatcher, err := dispatch.New(registry, matrix, audit.NewLogger(logger, sink))
	if err != nil {
		return fmt.Errorf("building dispatcher: %w", err)
	}

	probe := func(ctx context.Context) health.Report {
		return health.Aggregate(version, map[string]health.Status{
			"graph":    graph.Health(ctx),
			"document": docs.Health(ctx),
			"vector":   vectors.Health(ctx),
			"object":   objects.Health(ctx),
			"search":   index.Health(ctx),
		})
	}

	return fn(ctx, &Deps{
		Config:     cfg,
		Dispatcher: dispatcher,
		Sink:       sink,
		Probe:      probe,
	})
}

// buildDispatchTable compiles the registry and matrix without connecting to
// any store. Handlers are never invoked through it; it exists so listing
// commands work offline.
func buildDispatchTable() (*dispatch.Registry, *authority.Matrix, error) {
	registry := dispatch.NewRegistry()
	ops.RegisterAll(registry, ops.Services{})

	matrix, err := authority.NewMatrix(authority.DefaultRules())
	if err != nil {
		return nil, nil, fmt.Errorf("compiling authority matrix: %w", err)
	}
	return registry, matrix, nil
}
