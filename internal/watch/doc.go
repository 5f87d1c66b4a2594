// Package watch provides file-watching capabilities for kubevault's
// generate --watch mode. It monitors a vault directory for changes,
// debounces rapid events, and triggers manifest regeneration automatically.
package watch
