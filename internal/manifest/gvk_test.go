package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestGVKOf(t *testing.T) {
	assert.Equal(t, "Secret", GVKOf(&corev1.Secret{}).Kind)
	assert.Equal(t, "ServiceAccount", GVKOf(&corev1.ServiceAccount{}).Kind)
	assert.Equal(t, "Role", GVKOf(&rbacv1.Role{}).Kind)
	assert.Equal(t, "rbac.authorization.k8s.io", GVKOf(&rbacv1.RoleBinding{}).Group)
	assert.Equal(t, schema.GroupVersionKind{}, GVKOf("not a manifest"))
}

func TestIsDataSecret(t *testing.T) {
	assert.True(t, IsDataSecret(&corev1.Secret{}))
	assert.False(t, IsDataSecret(&corev1.Secret{Type: corev1.SecretTypeServiceAccountToken}))
	assert.False(t, IsDataSecret(&corev1.ServiceAccount{}))
}

func TestIsServiceAccount(t *testing.T) {
	assert.True(t, IsServiceAccount(&corev1.ServiceAccount{}))
	assert.False(t, IsServiceAccount(&corev1.Secret{}))
}

func TestIsRBAC(t *testing.T) {
	assert.True(t, IsRBAC(&rbacv1.Role{}))
	assert.True(t, IsRBAC(&rbacv1.RoleBinding{}))
	assert.False(t, IsRBAC(&corev1.Secret{}))
}
