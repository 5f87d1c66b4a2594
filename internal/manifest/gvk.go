package manifest

import (
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GVKOf returns the GroupVersionKind of a manifest object rendered by this
// package. It recognizes exactly the kinds kubevault emits: Secret,
// ServiceAccount, Role, RoleBinding.
func GVKOf(obj interface{}) schema.GroupVersionKind {
	switch obj.(type) {
	case *corev1.Secret:
		return schema.GroupVersionKind{Version: "v1", Kind: "Secret"}
	case *corev1.ServiceAccount:
		return schema.GroupVersionKind{Version: "v1", Kind: "ServiceAccount"}
	case *rbacv1.Role:
		return schema.GroupVersionKind{Group: "rbac.authorization.k8s.io", Version: "v1", Kind: "Role"}
	case *rbacv1.RoleBinding:
		return schema.GroupVersionKind{Group: "rbac.authorization.k8s.io", Version: "v1", Kind: "RoleBinding"}
	default:
		return schema.GroupVersionKind{}
	}
}

// IsDataSecret returns true for a kvstore-derived Secret, as opposed to a
// ServiceAccount token Secret.
func IsDataSecret(obj interface{}) bool {
	secret, ok := obj.(*corev1.Secret)
	if !ok {
		return false
	}

	return secret.Type != corev1.SecretTypeServiceAccountToken
}

// IsServiceAccount returns true for a ServiceAccount object.
func IsServiceAccount(obj interface{}) bool {
	_, ok := obj.(*corev1.ServiceAccount)
	return ok
}

// IsRBAC returns true for Role and RoleBinding objects.
func IsRBAC(obj interface{}) bool {
	switch obj.(type) {
	case *rbacv1.Role, *rbacv1.RoleBinding:
		return true
	default:
		return false
	}
}
