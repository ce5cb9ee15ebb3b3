// Package statuscmder provides the status command for displaying the last
// ingestion recorded in the .policyqa directory.
package statuscmder

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/pkg/cliui"
	"github.com/papercomputeco/policyqa/pkg/dotdir"
)

const statusLongDesc string = `Show the last ingestion state.

Reads the local .policyqa/ directory (or ~/.policyqa/) to display when the
corpus was last ingested, how many documents and chunks it holds, where the
artifacts were written and which files were skipped. Missing artifact files
are flagged.

Examples:
  policyqa status`

const statusShortDesc string = "Show the last ingestion state"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runStatus(w io.Writer, configDir string) error {
	manager := dotdir.NewManager()

	state, err := manager.LoadIngestState(configDir)
	if err != nil {
		return fmt.Errorf("loading ingest state: %w", err)
	}

	if state == nil {
		fmt.Fprintf(w, "  %s Nothing ingested yet. Run policyqa ingest.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Fprintln(w)
	row(w, "Ingested:  ", state.CompletedAt.Local().Format(time.RFC1123))
	row(w, "Data dir:  ", state.DataDir)
	row(w, "Documents: ", strconv.Itoa(state.Documents))
	row(w, "Chunks:    ", strconv.Itoa(state.Chunks))
	row(w, "Dimensions:", strconv.Itoa(state.Dimensions))
	fmt.Fprintln(w)

	for _, path := range []string{state.Metadata, state.Index, state.Model} {
		_, err := os.Stat(path)
		fmt.Fprintf(w, "  %s %s\n", cliui.Mark(err), cliui.ValueStyle.Render(path))
	}

	if len(state.FailedFiles) > 0 {
		fmt.Fprintf(w, "\n  %s\n", cliui.KeyStyle.Render("Skipped files:"))
		for _, f := range state.FailedFiles {
			fmt.Fprintf(w, "  %s %s\n", cliui.FailMark, cliui.DimStyle.Render(f))
		}
	}

	fmt.Fprintln(w)
	return nil
}

func row(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
}
