package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --data-dir
// on "policyqa ingest" and "policyqa serve").
type Flag struct {
	// Name is the long flag name (e.g. "data-dir").
	Name string

	// Shorthand is the one-letter short flag (e.g. "k"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "ingest.data_dir").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagDataDir         = "data-dir"
	FlagChunkSize       = "chunk-size"
	FlagChunkOverlap    = "chunk-overlap"
	FlagMaxFeatures     = "max-features"
	FlagArtifactsDir    = "artifacts-dir"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagTopK            = "top-k"
	FlagCacheProvider   = "cache-provider"
	FlagCacheTarget     = "cache-target"
	FlagGeneratorProv   = "generator-provider"
	FlagGeneratorTgt    = "generator-target"
	FlagGeneratorModel  = "generator-model"
	FlagAPIListen       = "listen"
	FlagAPITarget       = "api-target"
	FlagEventsProvider  = "events-provider"
	FlagEventsBrokers   = "events-brokers"
)

// Flags is the registry shared by every policyqa command.
var Flags = FlagSet{
	FlagDataDir:         {Name: "data-dir", ViperKey: "ingest.data_dir", Description: "Directory of policy documents to ingest"},
	FlagChunkSize:       {Name: "chunk-size", ViperKey: "ingest.chunk_size", Description: "Words per chunk"},
	FlagChunkOverlap:    {Name: "chunk-overlap", ViperKey: "ingest.chunk_overlap", Description: "Words shared by consecutive chunks"},
	FlagMaxFeatures:     {Name: "max-features", ViperKey: "embedding.max_features", Description: "Maximum TF-IDF vocabulary size"},
	FlagArtifactsDir:    {Name: "artifacts-dir", ViperKey: "artifacts.dir", Description: "Directory holding meta.json, index.bin and model.bin"},
	FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Search backend (flat, sqlite, qdrant)"},
	FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Search backend target (sqlite path or qdrant host:port)"},
	FlagTopK:            {Name: "top-k", Shorthand: "k", ViperKey: "retrieval.top_k", Description: "Number of chunks to return"},
	FlagCacheProvider:   {Name: "cache-provider", ViperKey: "cache.provider", Description: "Answer cache backend (file, memory, sqlite, postgres)"},
	FlagCacheTarget:     {Name: "cache-target", ViperKey: "cache.target", Description: "Answer cache path or connection string"},
	FlagGeneratorProv:   {Name: "generator-provider", ViperKey: "generator.provider", Description: "Answer generator (openai, ollama)"},
	FlagGeneratorTgt:    {Name: "generator-target", ViperKey: "generator.target", Description: "Answer generator base URL"},
	FlagGeneratorModel:  {Name: "generator-model", Shorthand: "m", ViperKey: "generator.model", Description: "Answer generator model"},
	FlagAPIListen:       {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagAPITarget:       {Name: "api-target", ViperKey: "client.api_target", Description: "URL of a running policyqa API server"},
	FlagEventsProvider:  {Name: "events-provider", ViperKey: "events.provider", Description: "Ingestion event sink (none, kafka)"},
	FlagEventsBrokers:   {Name: "events-brokers", ViperKey: "events.brokers", Description: "Comma-separated Kafka brokers"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
