package vault

import (
	"fmt"
	"strings"
)

// ErrVaultStructureInvalid reports a missing kvstore/ or access_control/
// directory under the vault root.
type ErrVaultStructureInvalid struct {
	Path   string
	Reason string
}

func (e *ErrVaultStructureInvalid) Error() string {
	return fmt.Sprintf("invalid vault structure at %q: %s", e.Path, e.Reason)
}

// ErrInvalidPath reports a path containing non-UTF-8 bytes.
type ErrInvalidPath struct {
	Path string
}

func (e *ErrInvalidPath) Error() string {
	return fmt.Sprintf("invalid path %q: not valid UTF-8", e.Path)
}

// ErrCycleDetected reports a symlink cycle encountered while walking kvstore/.
type ErrCycleDetected struct {
	Path string
}

func (e *ErrCycleDetected) Error() string {
	return fmt.Sprintf("symlink cycle detected at %q", e.Path)
}

// ErrInvalidSecretBody reports a secret file whose YAML root is not a
// mapping of scalar values, or that mixes in unsupported value types.
type ErrInvalidSecretBody struct {
	Path   string
	Reason string
}

func (e *ErrInvalidSecretBody) Error() string {
	return fmt.Sprintf("invalid secret body in %q: %s", e.Path, e.Reason)
}

// ErrInvalidSecretKey reports a mapping key that is not DNS
// subdomain-compatible.
type ErrInvalidSecretKey struct {
	Path string
	Key  string
}

func (e *ErrInvalidSecretKey) Error() string {
	return fmt.Sprintf("invalid secret key %q in %q: must match [a-zA-Z0-9._-]+", e.Key, e.Path)
}

// ErrUnreadableFile reports an I/O failure reading a file under the vault
// tree, including directory listing failures and non-regular files.
type ErrUnreadableFile struct {
	Path string
	Err  error
}

func (e *ErrUnreadableFile) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to read %q: %s", e.Path, e.Err)
	}

	return fmt.Sprintf("unable to read %q", e.Path)
}

func (e *ErrUnreadableFile) Unwrap() error { return e.Err }

// ErrSecretNameCollision reports two or more distinct kvstore paths that
// mangle to the same resource name.
type ErrSecretNameCollision struct {
	Name  string
	Paths []string
}

func (e *ErrSecretNameCollision) Error() string {
	return fmt.Sprintf("secret name collision on %q: paths %s all mangle to the same name",
		e.Name, strings.Join(e.Paths, ", "))
}

// ErrEmptySecretName reports a path that mangles to the empty string.
type ErrEmptySecretName struct {
	Path string
}

func (e *ErrEmptySecretName) Error() string {
	return fmt.Sprintf("path %q mangles to an empty resource name", e.Path)
}

// ErrInvalidUserName reports an access_control/ filename that is not a
// valid DNS-1123 label, per spec.md's open question on user-name validation.
type ErrInvalidUserName struct {
	Name string
}

func (e *ErrInvalidUserName) Error() string {
	return fmt.Sprintf("invalid user name %q: must be a valid DNS-1123 label", e.Name)
}
