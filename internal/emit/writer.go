package emit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is the interface for manifest output destinations.
type Writer interface {
	// Write sends one document's serialized bytes to the output destination.
	Write(data []byte) error
}

// StdoutWriter writes serialized YAML to an io.Writer, concatenating
// documents with a "---\n" separator.
type StdoutWriter struct {
	out   io.Writer
	first bool
}

// NewStdoutWriter creates a writer that sends output to w. If w is nil,
// os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutWriter{out: w, first: true}
}

// Write sends data to the underlying writer, separating documents with
// "---\n".
func (sw *StdoutWriter) Write(data []byte) error {
	if !sw.first {
		if _, err := sw.out.Write([]byte("---\n")); err != nil {
			return fmt.Errorf("writing document separator: %w", err)
		}
	}

	sw.first = false

	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing to output: %w", err)
	}

	return nil
}

// FileWriter writes serialized output to a file, creating parent
// directories as needed and warning on overwrite.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer that writes to the specified file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write creates parent directories and writes data to the file, warning if
// it already exists.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if _, err := os.Stat(fw.path); err == nil {
		fw.logger.Warn("overwriting existing file", slog.String("path", fw.path))
	}

	if err := os.WriteFile(fw.path, data, fw.perm); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}
