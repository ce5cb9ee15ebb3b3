// Package utils holds build metadata for the policyqa binaries.
package utils

import "fmt"

// Stamped at build time with
// -ldflags "-X github.com/papercomputeco/policyqa/pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// BuildInfo is the report printed by the version command.
func BuildInfo() string {
	return fmt.Sprintf("policyqa %s\nSha: %s\nBuilt at: %s\n", Version, Sha, Buildtime)
}
