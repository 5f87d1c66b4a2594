// Package emit serializes rendered manifests into a stable-ordered YAML
// stream or an output directory, per the ordering contract: all Secrets in
// path-sorted order, then each user's ServiceAccount, token Secret, Role,
// and RoleBinding in lexical order of username.
package emit
