package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent policyqa configuration stored as config.toml
// in the .policyqa/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Ingest      IngestConfig      `toml:"ingest"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Artifacts   ArtifactsConfig   `toml:"artifacts"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Cache       CacheConfig       `toml:"cache"`
	Generator   GeneratorConfig   `toml:"generator"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	Events      EventsConfig      `toml:"events"`
}

// IngestConfig controls document discovery and chunking.
type IngestConfig struct {
	DataDir      string `toml:"data_dir,omitempty"`
	ChunkSize    int    `toml:"chunk_size,omitempty"`
	ChunkOverlap int    `toml:"chunk_overlap,omitempty"`
}

// EmbeddingConfig holds TF-IDF settings.
type EmbeddingConfig struct {
	MaxFeatures int `toml:"max_features,omitempty"`
}

// ArtifactsConfig locates the persisted artifact set. File names are
// relative to Dir unless absolute.
type ArtifactsConfig struct {
	Dir          string `toml:"dir,omitempty"`
	MetadataFile string `toml:"metadata_file,omitempty"`
	IndexFile    string `toml:"index_file,omitempty"`
	ModelFile    string `toml:"model_file,omitempty"`
}

// VectorStoreConfig selects where query-time nearest-neighbor search runs.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// RetrievalConfig holds result counts for search and answer requests.
type RetrievalConfig struct {
	TopK       int `toml:"top_k,omitempty"`
	AnswerTopK int `toml:"answer_top_k,omitempty"`
}

// CacheConfig selects the answer cache backend.
type CacheConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// GeneratorConfig holds chat-completion settings. The API key itself is never
// stored; APIKeyEnv names the environment variable holding it.
type GeneratorConfig struct {
	Provider    string  `toml:"provider,omitempty"`
	Target      string  `toml:"target,omitempty"`
	Model       string  `toml:"model,omitempty"`
	APIKeyEnv   string  `toml:"api_key_env,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
	MaxTokens   int     `toml:"max_tokens,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server. Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// EventsConfig selects where ingestion events are published. Brokers is a
// comma-separated list.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.Itoa(*field(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}

func floatKey(name string, field func(c *Config) *float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatFloat(*field(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = f
			return nil
		},
	}
}

// orderedKeys lists every supported key in TOML section order.
var orderedKeys = []string{
	"ingest.data_dir",
	"ingest.chunk_size",
	"ingest.chunk_overlap",
	"embedding.max_features",
	"artifacts.dir",
	"artifacts.metadata_file",
	"artifacts.index_file",
	"artifacts.model_file",
	"vector_store.provider",
	"vector_store.target",
	"vector_store.collection",
	"retrieval.top_k",
	"retrieval.answer_top_k",
	"cache.provider",
	"cache.target",
	"generator.provider",
	"generator.target",
	"generator.model",
	"generator.api_key_env",
	"generator.temperature",
	"generator.max_tokens",
	"api.listen",
	"client.api_target",
	"events.provider",
	"events.brokers",
	"events.topic",
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"ingest.data_dir":         stringKey(func(c *Config) *string { return &c.Ingest.DataDir }),
	"ingest.chunk_size":       intKey("ingest.chunk_size", func(c *Config) *int { return &c.Ingest.ChunkSize }),
	"ingest.chunk_overlap":    intKey("ingest.chunk_overlap", func(c *Config) *int { return &c.Ingest.ChunkOverlap }),
	"embedding.max_features":  intKey("embedding.max_features", func(c *Config) *int { return &c.Embedding.MaxFeatures }),
	"artifacts.dir":           stringKey(func(c *Config) *string { return &c.Artifacts.Dir }),
	"artifacts.metadata_file": stringKey(func(c *Config) *string { return &c.Artifacts.MetadataFile }),
	"artifacts.index_file":    stringKey(func(c *Config) *string { return &c.Artifacts.IndexFile }),
	"artifacts.model_file":    stringKey(func(c *Config) *string { return &c.Artifacts.ModelFile }),
	"vector_store.provider":   stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),
	"vector_store.target":     stringKey(func(c *Config) *string { return &c.VectorStore.Target }),
	"vector_store.collection": stringKey(func(c *Config) *string { return &c.VectorStore.Collection }),
	"retrieval.top_k":         intKey("retrieval.top_k", func(c *Config) *int { return &c.Retrieval.TopK }),
	"retrieval.answer_top_k":  intKey("retrieval.answer_top_k", func(c *Config) *int { return &c.Retrieval.AnswerTopK }),
	"cache.provider":          stringKey(func(c *Config) *string { return &c.Cache.Provider }),
	"cache.target":            stringKey(func(c *Config) *string { return &c.Cache.Target }),
	"generator.provider":      stringKey(func(c *Config) *string { return &c.Generator.Provider }),
	"generator.target":        stringKey(func(c *Config) *string { return &c.Generator.Target }),
	"generator.model":         stringKey(func(c *Config) *string { return &c.Generator.Model }),
	"generator.api_key_env":   stringKey(func(c *Config) *string { return &c.Generator.APIKeyEnv }),
	"generator.temperature":   floatKey("generator.temperature", func(c *Config) *float64 { return &c.Generator.Temperature }),
	"generator.max_tokens":    intKey("generator.max_tokens", func(c *Config) *int { return &c.Generator.MaxTokens }),
	"api.listen":              stringKey(func(c *Config) *string { return &c.API.Listen }),
	"client.api_target":       stringKey(func(c *Config) *string { return &c.Client.APITarget }),
	"events.provider":         stringKey(func(c *Config) *string { return &c.Events.Provider }),
	"events.brokers":          stringKey(func(c *Config) *string { return &c.Events.Brokers }),
	"events.topic":            stringKey(func(c *Config) *string { return &c.Events.Topic }),
}
