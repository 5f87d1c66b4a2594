package vault

import (
	"regexp"
	"strings"
)

// disallowedNameChars matches any run of characters not valid in a mangled
// resource name (lower-case alphanumerics and '-').
var disallowedNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// maxNameBytes is the truncation limit applied to mangled names, matching
// Kubernetes' own metadata.name length limit.
const maxNameBytes = 253

// MangleName maps a SecretPath to a DNS-1123-ish resource name:
//  1. Join segments with '-'.
//  2. Lower-case.
//  3. Replace any run of disallowed characters with '-'.
//  4. Trim leading/trailing '-'.
//  5. Truncate to 253 bytes.
//
// Returns ErrEmptySecretName if the result is empty.
func MangleName(p SecretPath) (string, error) {
	joined := strings.Join(p.Segments(), "-")
	lower := strings.ToLower(joined)
	replaced := disallowedNameChars.ReplaceAllString(lower, "-")
	trimmed := strings.Trim(replaced, "-")

	if len(trimmed) > maxNameBytes {
		trimmed = trimmed[:maxNameBytes]
		trimmed = strings.TrimRight(trimmed, "-")
	}

	if trimmed == "" {
		return "", &ErrEmptySecretName{Path: p.String()}
	}

	return trimmed, nil
}

// dns1123LabelPattern validates a Kubernetes DNS-1123 label: lower-case
// alphanumerics and '-', must start and end with an alphanumeric.
var dns1123LabelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateUserName checks that name is a valid DNS-1123 label, the form
// required for the ServiceAccount and Role names derived from it.
func ValidateUserName(name string) error {
	if !dns1123LabelPattern.MatchString(name) {
		return &ErrInvalidUserName{Name: name}
	}

	return nil
}
