// Package version provides build-time metadata for the kubevault binary,
// plus the --min-vault-schema compatibility guard that checks a vault's
// declared schema version against a semver constraint.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build-time values injected via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// SchemaVersion is the vault directory-layout schema version this binary
// understands.
const SchemaVersion = "1.0.0"

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("kubevault %s (commit: %s, built: %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}

// CheckVaultSchemaConstraint reports whether vaultSchemaVersion, the
// schemaVersion declared in a vault's vault.yaml, satisfies constraint, a
// semver constraint string such as ">=1.0.0" or "^1.0" supplied via
// --min-vault-schema. Per SPEC_FULL.md §12.4, the guard is a no-op whenever
// either side is absent: an empty constraint (flag not set) or an empty
// vaultSchemaVersion (no vault.yaml, or no schemaVersion key in it).
func CheckVaultSchemaConstraint(constraint, vaultSchemaVersion string) error {
	if constraint == "" || vaultSchemaVersion == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(vaultSchemaVersion)
	if err != nil {
		return fmt.Errorf("parsing vault schema version %q: %w", vaultSchemaVersion, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("vault declares schema %s, which does not satisfy %s", vaultSchemaVersion, constraint)
	}

	return nil
}
