package vault

import (
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// secretKeyPattern validates a kvstore mapping key: DNS subdomain-compatible
// characters only.
var secretKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// parseSecretBody parses the YAML content of a kvstore file into a map of
// string key/value pairs. The root must be a mapping; values must be
// strings, integers, booleans, or floats, each coerced to a canonical string
// form. yaml.v3's Node.Value retains the original scalar source text, which
// already satisfies "floats preserving original textual form" for floats and
// strings; integers and booleans are re-rendered through strconv so that
// equivalent spellings (e.g. "0x1F", "True") normalize to one canonical form.
func parseSecretBody(path string, data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ErrInvalidSecretBody{Path: path, Reason: err.Error()}
	}

	if len(doc.Content) == 0 {
		// Empty file: treated as an empty mapping.
		return map[string]string{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ErrInvalidSecretBody{Path: path, Reason: "root is not a mapping"}
	}

	result := make(map[string]string, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return nil, &ErrInvalidSecretBody{Path: path, Reason: "mapping key is not a scalar"}
		}

		key := keyNode.Value
		if !secretKeyPattern.MatchString(key) {
			return nil, &ErrInvalidSecretKey{Path: path, Key: key}
		}

		value, err := canonicalScalar(valNode)
		if err != nil {
			return nil, &ErrInvalidSecretBody{Path: path, Reason: fmt.Sprintf("key %q: %s", key, err)}
		}

		result[key] = value
	}

	return result, nil
}

// canonicalScalar coerces a YAML scalar node into its canonical string
// representation per §4.1: strings pass through verbatim, integers and
// booleans are normalized via strconv, floats preserve their source text.
func canonicalScalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("value is not a scalar")
	}

	switch n.Tag {
	case "!!str":
		return n.Value, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return "", fmt.Errorf("malformed integer %q: %w", n.Value, err)
		}

		return strconv.FormatInt(i, 10), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return "", fmt.Errorf("malformed boolean %q: %w", n.Value, err)
		}

		return strconv.FormatBool(b), nil
	case "!!float":
		return n.Value, nil
	default:
		return "", fmt.Errorf("unsupported value type %q", n.Tag)
	}
}
