// Package manifest renders catalog entries and evaluated ACLs into typed
// Kubernetes objects: one Secret per kvstore entry, and a ServiceAccount,
// token Secret, Role, and RoleBinding per access-controlled user.
package manifest
