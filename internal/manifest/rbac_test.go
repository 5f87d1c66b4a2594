package manifest

import (
	"testing"

	corev1 "k8s.io/api/core/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUser_EmptyAllowedSetOmitsSecretsRule(t *testing.T) {
	ruleText := []string{"!*/users/**", "*/users/alice", "*/users/alice/**"}
	um := RenderUser("kubevault-kvstore", "alice", nil, ruleText)

	assert.Equal(t, "alice", um.ServiceAccount.Name)
	assert.Equal(t, "alice", um.Token.Name)
	assert.Equal(t, corev1.SecretTypeServiceAccountToken, um.Token.Type)
	assert.Equal(t, "alice", um.Token.Annotations["kubernetes.io/service-account.name"])

	assert.Equal(t, "kubevault:alice:access", um.Role.Name)
	require.Len(t, um.Role.Rules, 1)
	assert.Equal(t, []string{"selfsubjectaccessreviews"}, um.Role.Rules[0].Resources)
	assert.Equal(t, "!*/users/**\n*/users/alice\n*/users/alice/**", um.Role.Annotations[RulesAnnotation])

	assert.Equal(t, um.Role.Name, um.RoleBinding.Name)
	assert.Equal(t, um.Role.Name, um.RoleBinding.RoleRef.Name)
	require.Len(t, um.RoleBinding.Subjects, 1)
	assert.Equal(t, "alice", um.RoleBinding.Subjects[0].Name)
}

func TestRenderUser_NonEmptyAllowedSetAddsSecretsRule(t *testing.T) {
	um := RenderUser("kubevault-kvstore", "bob", []string{"aaa", "bbb"}, []string{"**/*"})

	require.Len(t, um.Role.Rules, 2)
	secretsRule := um.Role.Rules[1]
	assert.Equal(t, []string{""}, secretsRule.APIGroups)
	assert.Equal(t, []string{"secrets"}, secretsRule.Resources)
	assert.Equal(t, []string{"get", "list"}, secretsRule.Verbs)
	assert.Equal(t, []string{"aaa", "bbb"}, secretsRule.ResourceNames)
}

func TestRenderUser_AlwaysHasSelfReviewRule(t *testing.T) {
	um := RenderUser("ns", "carol", nil, nil)
	assert.Equal(t, "create", um.Role.Rules[0].Verbs[0])
	assert.Equal(t, "selfsubjectaccessreviews", um.Role.Rules[0].Resources[0])
}
