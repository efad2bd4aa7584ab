package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "canonkeep", cfg.Mongo.Database)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, ".canonkeep/audit.db", cfg.Audit.SQLitePath)
	assert.Empty(t, cfg.Neo4j.Password)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_NEO4J_PASS", "s3cret")

	path := filepath.Join(t.TempDir(), "canonkeep.yaml")
	raw := `
neo4j:
  uri: bolt://graph:7687
  username: neo4j
  password: ${TEST_NEO4J_PASS}
mongo:
  uri: mongodb://docs:27017
minio:
  endpoint: objects:9000
  access_key: ak
  secret_key: sk
  bucket: artifacts
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "s3cret", cfg.Neo4j.Password)
	assert.Equal(t, "mongodb://docs:27017", cfg.Mongo.URI)
	assert.Equal(t, "artifacts", cfg.Minio.Bucket)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "canonkeep", cfg.Mongo.Database)
	assert.Equal(t, "memories", cfg.Qdrant.Collection)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canonkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("neo4j: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidateRequiresCredentials(t *testing.T) {
	assert.Error(t, Neo4jConfig{URI: "bolt://x", Username: "neo4j"}.Validate())
	assert.Error(t, Neo4jConfig{Username: "neo4j", Password: "p"}.Validate())
	assert.NoError(t, Neo4jConfig{URI: "bolt://x", Username: "neo4j", Password: "p"}.Validate())

	assert.Error(t, MongoConfig{}.Validate())
	assert.NoError(t, MongoConfig{URI: "mongodb://x"}.Validate())

	assert.Error(t, MinioConfig{Endpoint: "x", AccessKey: "a"}.Validate())
	assert.Error(t, MinioConfig{Endpoint: "x", AccessKey: "a", SecretKey: "s"}.Validate())
	assert.NoError(t, MinioConfig{Endpoint: "x", AccessKey: "a", SecretKey: "s", Bucket: "b"}.Validate())
}
