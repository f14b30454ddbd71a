package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (v *TestVault) AssertFileExists(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		v.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (v *TestVault) AssertFileNotExists(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	if _, err := os.Stat(fullPath); err == nil {
		v.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (v *TestVault) AssertFileContains(relPath, substr string) {
	v.t.Helper()
	content := v.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		v.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (v *TestVault) AssertFileNotContains(relPath, substr string) {
	v.t.Helper()
	content := v.ReadFile(relPath)
	if strings.Contains(content, substr) {
		v.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}
