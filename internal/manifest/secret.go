package manifest

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/xunleii/kubevault/internal/vault"
)

// PathAnnotation is the annotation key preserving a Secret's source path in
// kvstore/, since name mangling is lossy.
const PathAnnotation = "kubevault.chezmoi.sh/path"

// RulesAnnotation is the annotation key preserving a user's evaluated rule
// text on their Role.
const RulesAnnotation = "kubevault.chezmoi.sh/rules"

// RenderSecret builds the Secret manifest for one kvstore entry. Type is
// left unset, defaulting to Opaque.
func RenderSecret(namespace string, entry vault.SecretEntry) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      entry.Name,
			Namespace: namespace,
			Annotations: map[string]string{
				PathAnnotation: entry.Path.String(),
			},
		},
		StringData: entry.Data,
	}
}
