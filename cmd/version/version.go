// Package versioncmder provides the version command.
package versioncmder

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/pkg/utils"
)

type VersionCommander struct {
	out io.Writer
}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the policyqa version",
		Long:  "Display the version, commit and build time of this policyqa binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run()
		},
	}

	return cmd
}

func (c *VersionCommander) run() error {
	_, err := io.WriteString(c.out, utils.BuildInfo())
	return err
}
