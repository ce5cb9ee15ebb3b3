package config

const (
	defaultDataDir      = "data"
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
	defaultMaxFeatures  = 300

	defaultArtifactsDir = "."
	defaultMetadataFile = "meta.json"
	defaultIndexFile    = "index.bin"
	defaultModelFile    = "model.bin"

	defaultVectorProvider   = "flat"
	defaultVectorCollection = "policyqa_chunks"

	defaultTopK       = 5
	defaultAnswerTopK = 3

	defaultCacheProvider = "file"
	defaultCacheTarget   = "cache.json"

	defaultGeneratorProvider    = "openai"
	defaultGeneratorTarget      = "https://api.groq.com/openai/v1"
	defaultGeneratorModel       = "llama-3.1-8b-instant"
	defaultGeneratorAPIKeyEnv   = "GROQ_API_KEY"
	defaultGeneratorTemperature = 0.1
	defaultGeneratorMaxTokens   = 1024

	defaultAPIListen       = ":8000"
	defaultClientAPITarget = "http://localhost:8000"

	defaultEventsProvider = "none"
	defaultEventsTopic    = "policyqa.ingest"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Ingest: IngestConfig{
			DataDir:      defaultDataDir,
			ChunkSize:    defaultChunkSize,
			ChunkOverlap: defaultChunkOverlap,
		},
		Embedding: EmbeddingConfig{
			MaxFeatures: defaultMaxFeatures,
		},
		Artifacts: ArtifactsConfig{
			Dir:          defaultArtifactsDir,
			MetadataFile: defaultMetadataFile,
			IndexFile:    defaultIndexFile,
			ModelFile:    defaultModelFile,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Retrieval: RetrievalConfig{
			TopK:       defaultTopK,
			AnswerTopK: defaultAnswerTopK,
		},
		Cache: CacheConfig{
			Provider: defaultCacheProvider,
			Target:   defaultCacheTarget,
		},
		Generator: GeneratorConfig{
			Provider:    defaultGeneratorProvider,
			Target:      defaultGeneratorTarget,
			Model:       defaultGeneratorModel,
			APIKeyEnv:   defaultGeneratorAPIKeyEnv,
			Temperature: defaultGeneratorTemperature,
			MaxTokens:   defaultGeneratorMaxTokens,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
