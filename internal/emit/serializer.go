package emit

import (
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// marshalYAML serializes a typed Kubernetes object to YAML, ensuring a
// trailing newline.
func marshalYAML(obj interface{}) ([]byte, error) {
	data, err := sigsyaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("serializing manifest: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return data, nil
}
