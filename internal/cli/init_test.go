package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesVaultScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")

	if err := initCmd.RunE(initCmd, []string{dir}); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, sub := range []string{"Inbox", "Fleeting", "Permanent", "Archive", ".magpie"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s", sub)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "magpie.yaml")); err != nil {
		t.Errorf("magpie.yaml not created: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf(".gitignore not created: %v", err)
	}
	if !strings.Contains(string(data), ".magpie/") {
		t.Errorf(".gitignore missing cache entry:\n%s", data)
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	existing := "max_tags: 5\n"
	if err := os.WriteFile(filepath.Join(dir, "magpie.yaml"), []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	if err := initCmd.RunE(initCmd, []string{dir}); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "magpie.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != existing {
		t.Errorf("existing magpie.yaml was overwritten")
	}
}

func TestEnsureGitignoreAppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	status, err := ensureGitignore(dir)
	if err != nil {
		t.Fatalf("ensureGitignore: %v", err)
	}
	if status != "updated" {
		t.Errorf("status = %q, want updated", status)
	}

	data, _ := os.ReadFile(filepath.Join(dir, ".gitignore"))
	content := string(data)
	if !strings.Contains(content, "node_modules/") {
		t.Errorf("existing entries lost:\n%s", content)
	}
	if !strings.Contains(content, ".magpie/") {
		t.Errorf("cache entry not added:\n%s", content)
	}

	// A second call must be a no-op.
	status, err = ensureGitignore(dir)
	if err != nil {
		t.Fatalf("ensureGitignore (second): %v", err)
	}
	if status != "unchanged" {
		t.Errorf("second status = %q, want unchanged", status)
	}
}
