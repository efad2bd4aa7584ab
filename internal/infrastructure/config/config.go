// Package config loads infrastructure configuration from YAML with
// environment expansion. Credentials have no safe default: each adapter
// config validates at construction and fails fast when one is absent.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default config file name.
const DefaultConfigFile = "canonkeep.yaml"

// Config holds static infrastructure configuration (read-only after load).
type Config struct {
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Minio    MinioConfig    `yaml:"minio"`
	Bleve    BleveConfig    `yaml:"bleve"`
	Embedder EmbedderConfig `yaml:"embedder,omitempty"`
	Audit    AuditConfig    `yaml:"audit"`
}

// Neo4jConfig holds the canonical graph store connection.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database,omitempty"`
}

// Validate fails fast on missing endpoint or credentials.
func (c Neo4jConfig) Validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return fmt.Errorf("neo4j uri is required")
	}
	if c.Username == "" {
		return fmt.Errorf("neo4j username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("neo4j password is required")
	}
	return nil
}

// MongoConfig holds the document store connection.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database,omitempty"`
}

// Validate fails fast on a missing connection string.
func (c MongoConfig) Validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return fmt.Errorf("mongo uri is required")
	}
	return nil
}

// QdrantConfig holds the vector store connection.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// MinioConfig holds the object store connection.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseTLS    bool   `yaml:"use_tls,omitempty"`
}

// Validate fails fast on missing endpoint or credentials.
func (c MinioConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("minio credentials are required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("minio bucket is required")
	}
	return nil
}

// BleveConfig holds the full-text index location.
type BleveConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EmbedderConfig holds the embedding provider. Optional: without it,
// memories are stored unembedded and recall degrades to recency.
type EmbedderConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// AuditConfig holds the persistent audit sink location.
type AuditConfig struct {
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// Default returns a Config with development defaults. Credentials stay
// empty deliberately.
func Default() *Config {
	return &Config{
		Neo4j:  Neo4jConfig{URI: "bolt://localhost:7687", Username: "neo4j"},
		Mongo:  MongoConfig{Database: "canonkeep"},
		Qdrant: QdrantConfig{Host: "localhost", Port: 6334, Collection: "memories"},
		Bleve:  BleveConfig{Path: ".canonkeep/search.bleve"},
		Audit:  AuditConfig{SQLitePath: ".canonkeep/audit.db"},
	}
}

// Load reads the config file, expanding ${VAR} references from the
// environment so credentials can stay out of the file itself. A missing
// file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
