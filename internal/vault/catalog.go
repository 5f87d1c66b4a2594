// Package vault implements the path catalog, name mangler, and secret-file
// parsing that make up the left half of the kubevault pipeline: discovering
// the kvstore/ tree and turning it into named, typed SecretEntry values.
package vault

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"unicode/utf8"
)

// Directory names that make up a vault tree.
const (
	KVStoreDirName       = "kvstore"
	AccessControlDirName = "access_control"
)

// SecretEntry is a fully resolved kvstore entry: its catalog path, mangled
// resource name, and parsed key/value data.
type SecretEntry struct {
	Path SecretPath
	Name string
	Data map[string]string
}

// Vault is an opened, structurally valid vault tree rooted at Dir.
type Vault struct {
	Dir string
}

// Open validates that dir contains both kvstore/ and access_control/
// directories and returns a handle to it.
func Open(dir string) (*Vault, error) {
	kv := filepath.Join(dir, KVStoreDirName)
	if fi, err := os.Stat(kv); err != nil || !fi.IsDir() {
		return nil, &ErrVaultStructureInvalid{Path: dir, Reason: "missing kvstore/ directory"}
	}

	ac := filepath.Join(dir, AccessControlDirName)
	if fi, err := os.Stat(ac); err != nil || !fi.IsDir() {
		return nil, &ErrVaultStructureInvalid{Path: dir, Reason: "missing access_control/ directory"}
	}

	return &Vault{Dir: dir}, nil
}

// KVStoreDir returns the absolute path to the kvstore/ subtree.
func (v *Vault) KVStoreDir() string {
	return filepath.Join(v.Dir, KVStoreDirName)
}

// AccessControlDir returns the absolute path to the access_control/ subtree.
func (v *Vault) AccessControlDir() string {
	return filepath.Join(v.Dir, AccessControlDirName)
}

// fileKey identifies a filesystem inode for symlink-cycle detection.
type fileKey struct {
	dev uint64
	ino uint64
}

func statKey(path string) (fileKey, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return fileKey{}, err
	}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, nil //nolint:nilerr // platform without Stat_t: cycle detection degrades, not fatal
	}

	return fileKey{dev: uint64(st.Dev), ino: st.Ino}, nil
}

// Catalog walks v's kvstore/ tree depth-first, in byte-wise lexicographic
// order within each directory, and returns the fully resolved, name-mangled
// SecretEntry list. Collisions in mangled names abort the whole catalog with
// ErrSecretNameCollision.
func (v *Vault) Catalog() ([]SecretEntry, error) {
	root := v.KVStoreDir()

	var relPaths []string
	if err := walkKVStore(root, root, map[fileKey]bool{}, &relPaths); err != nil {
		return nil, err
	}

	sort.Strings(relPaths)

	entries := make([]SecretEntry, 0, len(relPaths))
	byName := make(map[string][]string, len(relPaths))

	for _, rel := range relPaths {
		segments := strings.Split(rel, "/")
		path := NewSecretPath(segments...)

		name, err := MangleName(path)
		if err != nil {
			return nil, err
		}

		abs := filepath.Join(root, rel)

		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, &ErrUnreadableFile{Path: rel, Err: err}
		}

		body, err := parseSecretBody(rel, data)
		if err != nil {
			return nil, err
		}

		byName[name] = append(byName[name], rel)
		entries = append(entries, SecretEntry{Path: path, Name: name, Data: body})
	}

	for name, paths := range byName {
		if len(paths) > 1 {
			sorted := append([]string(nil), paths...)
			sort.Strings(sorted)

			return nil, &ErrSecretNameCollision{Name: name, Paths: sorted}
		}
	}

	return entries, nil
}

// walkKVStore recursively lists regular files (following symlinks) under
// dir, appending their paths relative to root to out in sorted order.
func walkKVStore(root, dir string, visited map[fileKey]bool, out *[]string) error {
	key, err := statKey(dir)
	if err != nil {
		return &ErrUnreadableFile{Path: dir, Err: err}
	}

	if key != (fileKey{}) {
		if visited[key] {
			return &ErrCycleDetected{Path: dir}
		}

		visited[key] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ErrUnreadableFile{Path: dir, Err: err}
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}

	sort.Strings(names)

	for _, name := range names {
		if !utf8.ValidString(name) {
			return &ErrInvalidPath{Path: filepath.Join(dir, name)}
		}

		full := filepath.Join(dir, name)

		lst, err := os.Lstat(full)
		if err != nil {
			return &ErrUnreadableFile{Path: full, Err: err}
		}

		switch {
		case lst.Mode()&os.ModeSymlink != 0:
			target, err := os.Stat(full)
			if err != nil {
				return &ErrUnreadableFile{Path: full, Err: err}
			}

			if target.IsDir() {
				if err := walkKVStore(root, full, visited, out); err != nil {
					return err
				}
			} else if target.Mode().IsRegular() {
				appendRelPath(root, full, out)
			} else {
				return &ErrUnreadableFile{Path: full}
			}
		case lst.IsDir():
			if err := walkKVStore(root, full, visited, out); err != nil {
				return err
			}
		case lst.Mode().IsRegular():
			appendRelPath(root, full, out)
		default:
			return &ErrUnreadableFile{Path: full}
		}
	}

	return nil
}

func appendRelPath(root, full string, out *[]string) {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		rel = full
	}

	*out = append(*out, filepath.ToSlash(rel))
}
