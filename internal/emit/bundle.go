package emit

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/xunleii/kubevault/internal/manifest"
	"github.com/xunleii/kubevault/internal/vault"
)

// Document is one rendered manifest together with the filename it belongs
// in when written to an output directory.
type Document struct {
	Object   interface{}
	Filename string
}

// ErrOutputFailure wraps an I/O error encountered while emitting a document.
type ErrOutputFailure struct {
	Path string
	Err  error
}

func (e *ErrOutputFailure) Error() string {
	return fmt.Sprintf("writing output %s: %s", e.Path, e.Err)
}

func (e *ErrOutputFailure) Unwrap() error {
	return e.Err
}

// BuildSecretDocuments renders one Secret document per catalog entry.
// catalog must already be sorted by path, as returned by (*vault.Vault).Catalog.
func BuildSecretDocuments(namespace string, catalog []vault.SecretEntry) []Document {
	docs := make([]Document, 0, len(catalog))

	for _, entry := range catalog {
		docs = append(docs, Document{
			Object:   manifest.RenderSecret(namespace, entry),
			Filename: fmt.Sprintf("secrets-%s.yaml", entry.Name),
		})
	}

	return docs
}

// BuildUserDocuments renders the four RBAC documents for one user, in the
// fixed order ServiceAccount, token Secret, Role, RoleBinding.
func BuildUserDocuments(namespace, user string, allowedNames, ruleText []string) []Document {
	um := manifest.RenderUser(namespace, user, allowedNames, ruleText)
	filename := fmt.Sprintf("access-control-%s.yaml", user)

	return []Document{
		{Object: um.ServiceAccount, Filename: filename},
		{Object: um.Token, Filename: filename},
		{Object: um.Role, Filename: filename},
		{Object: um.RoleBinding, Filename: filename},
	}
}

// UserBundle is the allowed-name set and rule text needed to render one
// user's RBAC documents, keyed by username.
type UserBundle struct {
	User         string
	AllowedNames []string
	RuleText     []string
}

// BuildDocuments assembles the full, stably ordered document list: all
// Secrets in path-sorted order, then each user's RBAC quad in lexical order
// of username. users need not be pre-sorted.
func BuildDocuments(namespace string, catalog []vault.SecretEntry, users []UserBundle) []Document {
	sorted := make([]UserBundle, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].User < sorted[j].User })

	docs := BuildSecretDocuments(namespace, catalog)

	for _, u := range sorted {
		docs = append(docs, BuildUserDocuments(namespace, u.User, u.AllowedNames, u.RuleText)...)
	}

	return docs
}

// ToStream serializes docs as a single YAML stream to w, documents
// separated by "---\n".
func ToStream(w io.Writer, docs []Document) error {
	sw := NewStdoutWriter(w)

	for _, doc := range docs {
		data, err := marshalYAML(doc.Object)
		if err != nil {
			return err
		}

		if err := sw.Write(data); err != nil {
			return &ErrOutputFailure{Path: "<stream>", Err: err}
		}
	}

	return nil
}

// ToDirectory writes docs into dir, grouping documents that share a
// Filename into one multi-document YAML file, in the order they first
// appear in docs.
func ToDirectory(dir string, docs []Document) error {
	var order []string

	grouped := map[string][]Document{}

	for _, doc := range docs {
		if _, ok := grouped[doc.Filename]; !ok {
			order = append(order, doc.Filename)
		}

		grouped[doc.Filename] = append(grouped[doc.Filename], doc)
	}

	for _, filename := range order {
		group := grouped[filename]

		var buf []byte

		for i, doc := range group {
			data, err := marshalYAML(doc.Object)
			if err != nil {
				return err
			}

			if i > 0 {
				buf = append(buf, []byte("---\n")...)
			}

			buf = append(buf, data...)
		}

		path := filepath.Join(dir, filename)
		if err := NewFileWriter(path).Write(buf); err != nil {
			return &ErrOutputFailure{Path: path, Err: err}
		}
	}

	return nil
}
