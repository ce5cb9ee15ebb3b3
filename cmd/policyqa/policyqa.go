// Package policyqacmder is the root policyqa command.
package policyqacmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/policyqa/cmd/policyqa/ask"
	authcmder "github.com/papercomputeco/policyqa/cmd/policyqa/auth"
	configcmder "github.com/papercomputeco/policyqa/cmd/policyqa/config"
	ingestcmder "github.com/papercomputeco/policyqa/cmd/policyqa/ingest"
	initcmder "github.com/papercomputeco/policyqa/cmd/policyqa/init"
	searchcmder "github.com/papercomputeco/policyqa/cmd/policyqa/search"
	servecmder "github.com/papercomputeco/policyqa/cmd/policyqa/serve"
	statuscmder "github.com/papercomputeco/policyqa/cmd/policyqa/status"
	versioncmder "github.com/papercomputeco/policyqa/cmd/version"
	"github.com/papercomputeco/policyqa/pkg/utils"
)

const policyqaLongDesc string = `policyqa answers questions about HR policy documents.

Ingest a directory of PDF and text documents once, then search or ask:
  policyqa init                 Create a local .policyqa/ config directory
  policyqa ingest               Build meta.json, index.bin and model.bin
  policyqa search <query>       Show the most relevant policy passages
  policyqa ask <question>       Answer a question from the policy passages
  policyqa serve                Run the HTTP API and MCP server
  policyqa auth <provider>      Store a generator API key`

const policyqaShortDesc string = "policyqa - HR policy question answering"

func NewPolicyQACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "policyqa",
		Short:         policyqaShortDesc,
		Long:          policyqaLongDesc,
		Version:       utils.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .policyqa/ config directory")

	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
