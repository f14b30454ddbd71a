// Package testutil provides reusable test utilities for Magpie tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file with raw content to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithNote adds a markdown note with frontmatter built from fields, followed
// by body. Field order in the frontmatter follows the call's pair order.
func (v *TestVault) WithNote(path string, body string, fields ...string) *TestVault {
	if len(fields)%2 != 0 {
		v.t.Fatalf("WithNote fields must be key/value pairs, got %d items", len(fields))
	}
	var b strings.Builder
	b.WriteString("---\n")
	for i := 0; i < len(fields); i += 2 {
		fmt.Fprintf(&b, "%s: %s\n", fields[i], fields[i+1])
	}
	b.WriteString("---\n")
	b.WriteString(body)
	v.files[path] = b.String()
	return v
}

// WithConfig sets the magpie.yaml content for the vault.
func (v *TestVault) WithConfig(yaml string) *TestVault {
	v.files["magpie.yaml"] = yaml
	return v
}

// Build creates the vault directory and all configured files.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()
	for path, content := range v.files {
		v.writeFile(path, content)
	}
	return v
}

// WriteFile writes a file into an already-built vault.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		v.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// ReadFile reads a file from the vault.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	data, err := os.ReadFile(filepath.Join(v.Path, filepath.FromSlash(relPath)))
	if err != nil {
		v.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}
