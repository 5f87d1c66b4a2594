package vault

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VaultConfigFileName is the optional file at a vault's root carrying
// vault-tree metadata, such as the schema version consumed by
// --min-vault-schema (SPEC_FULL.md §12.4).
const VaultConfigFileName = "vault.yaml"

// vaultConfig is the shape of an optional vault.yaml file.
type vaultConfig struct {
	SchemaVersion string `yaml:"schemaVersion"`
}

// SchemaVersion reads the optional vault.yaml at v's root and returns its
// declared schemaVersion. It returns "" without error when vault.yaml is
// absent or declares no schemaVersion, matching spec.md's backward
// compatibility with vault trees that predate vault.yaml entirely.
func (v *Vault) SchemaVersion() (string, error) {
	path := filepath.Join(v.Dir, VaultConfigFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", &ErrUnreadableFile{Path: path, Err: err}
	}

	var cfg vaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", &ErrVaultStructureInvalid{Path: path, Reason: "malformed vault.yaml: " + err.Error()}
	}

	return cfg.SchemaVersion, nil
}
