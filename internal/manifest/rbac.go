package manifest

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RoleName returns the Role/RoleBinding name for a user. The ":" delimiter
// is permitted in core/rbac resource names even though it is not a valid
// DNS label.
func RoleName(user string) string {
	return fmt.Sprintf("kubevault:%s:access", user)
}

// UserManifests is the four RBAC objects rendered for one user.
type UserManifests struct {
	ServiceAccount *corev1.ServiceAccount
	Token          *corev1.Secret
	Role           *rbacv1.Role
	RoleBinding    *rbacv1.RoleBinding
}

// RenderUser builds the ServiceAccount, token Secret, Role, and RoleBinding
// for user, given the sorted list of mangled secret names it may read and
// the raw rule text (own rules plus implicit tail, in evaluation order) to
// preserve on the Role's annotation.
func RenderUser(namespace, user string, allowedNames, ruleText []string) UserManifests {
	sa := &corev1.ServiceAccount{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{Name: user, Namespace: namespace},
	}

	token := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      user,
			Namespace: namespace,
			Annotations: map[string]string{
				"kubernetes.io/service-account.name": user,
			},
		},
		Type: corev1.SecretTypeServiceAccountToken,
	}

	rules := []rbacv1.PolicyRule{
		{
			APIGroups: []string{"authorization.k8s.io"},
			Resources: []string{"selfsubjectaccessreviews"},
			Verbs:     []string{"create"},
		},
	}

	if len(allowedNames) > 0 {
		rules = append(rules, rbacv1.PolicyRule{
			APIGroups:     []string{""},
			Resources:     []string{"secrets"},
			Verbs:         []string{"get", "list"},
			ResourceNames: allowedNames,
		})
	}

	name := RoleName(user)

	role := &rbacv1.Role{
		TypeMeta: metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "Role"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Annotations: map[string]string{
				RulesAnnotation: strings.Join(ruleText, "\n"),
			},
		},
		Rules: rules,
	}

	binding := &rbacv1.RoleBinding{
		TypeMeta:   metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "RoleBinding"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Subjects: []rbacv1.Subject{
			{Kind: "ServiceAccount", Name: user, Namespace: namespace},
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: "rbac.authorization.k8s.io",
			Kind:     "Role",
			Name:     name,
		},
	}

	return UserManifests{ServiceAccount: sa, Token: token, Role: role, RoleBinding: binding}
}
