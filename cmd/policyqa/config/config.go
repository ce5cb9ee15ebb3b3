// Package configcmder provides the config command for managing persistent
// policyqa configuration stored in the .policyqa/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent policyqa configuration.

Configuration is stored as config.toml in the .policyqa/ directory and
provides default values for command flags. CLI flags take precedence over
POLICYQA_* environment variables, which take precedence over config file
values.

Keys use dotted notation matching the TOML section structure, for example:
  ingest.data_dir, ingest.chunk_size, embedding.max_features,
  vector_store.provider, cache.provider, generator.model, api.listen

Use subcommands to get, set, or list configuration values:
  policyqa config set <key> <value>    Set a configuration value
  policyqa config get <key>            Get a configuration value
  policyqa config list                 List all configuration values

Examples:
  policyqa config set generator.provider ollama
  policyqa config set retrieval.top_k 3
  policyqa config get cache.provider
  policyqa config list`

const configShortDesc string = "Manage persistent policyqa configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
