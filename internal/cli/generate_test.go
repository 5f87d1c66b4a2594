package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVaultDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kvstore", "production"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "access_control"), 0o755))

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "kvstore", "production", "aws"), []byte("key: secret\n"), 0o644))

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "access_control", "alice"), []byte("production/**\n"), 0o644))

	return dir
}

func TestRunGenerate_StreamsToStdout(t *testing.T) {
	dir := newTestVaultDir(t)

	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir})

	require.NoError(t, cmd.Execute())

	out := outBuf.String()
	assert.Contains(t, out, "kind: Secret")
	assert.Contains(t, out, "kind: ServiceAccount")
	assert.Contains(t, out, "kind: Role")
	assert.Contains(t, out, "kind: RoleBinding")
	assert.Contains(t, out, "name: alice")
}

func TestRunGenerate_OutputDir(t *testing.T) {
	dir := newTestVaultDir(t)
	outDir := t.TempDir()

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir, "--output-dir", outDir})

	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(outDir, "secrets-production-aws.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "access-control-alice.yaml"))
}

func TestRunGenerate_InvalidVaultDir(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", "/nonexistent/vault/xyz"})

	err := cmd.Execute()
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestRunGenerate_MinVaultSchemaSatisfied(t *testing.T) {
	dir := newTestVaultDir(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "vault.yaml"), []byte("schemaVersion: \"1.5.0\"\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir, "--min-vault-schema", ">=1.0.0"})

	assert.NoError(t, cmd.Execute())
}

func TestRunGenerate_MinVaultSchemaUnsatisfied(t *testing.T) {
	dir := newTestVaultDir(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "vault.yaml"), []byte("schemaVersion: \"1.0.0\"\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir, "--min-vault-schema", ">=2.0.0"})

	err := cmd.Execute()
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestRunGenerate_MinVaultSchemaNoVaultYAML(t *testing.T) {
	dir := newTestVaultDir(t)

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir, "--min-vault-schema", ">=2.0.0"})

	assert.NoError(t, cmd.Execute(), "an absent vault.yaml makes --min-vault-schema a no-op")
}

func TestRunGenerate_InvalidUserName(t *testing.T) {
	dir := newTestVaultDir(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "access_control", "Not_Valid!"), []byte("production/**\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"generate", "--vault-dir", dir})

	err := cmd.Execute()
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}
