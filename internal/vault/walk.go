package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/parser"
	"github.com/corvid-tools/magpie/internal/paths"
)

// ScanResult is one markdown file encountered during a scan. Err is set for
// unreadable or unparsable files; the scan itself continues.
type ScanResult struct {
	RelPath string
	Note    *note.Note
	Hash    string
	Err     error
}

// skipDirs are vault directories never scanned for notes.
var skipDirs = map[string]struct{}{
	index.DotDir: {},
	".git":       {},
	".obsidian":  {},
	".trash":     {},
}

// Scan walks all markdown files in the vault and parses each. Per-file
// errors are recorded in the result, never aborting the walk; only a
// failure to traverse the root itself is returned as an error.
func (s *Store) Scan() ([]ScanResult, error) {
	var results []ScanResult

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.Root {
				return err
			}
			relPath, _ := filepath.Rel(s.Root, path)
			results = append(results, ScanResult{RelPath: filepath.ToSlash(relPath), Err: err})
			return nil
		}

		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip || (strings.HasPrefix(d.Name(), ".") && path != s.Root) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		if err := paths.ValidateWithinVault(s.Root, path); err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(s.Root, path)
		relPath = filepath.ToSlash(relPath)

		data, err := os.ReadFile(path)
		if err != nil {
			results = append(results, ScanResult{RelPath: relPath, Err: err})
			return nil
		}

		n, err := parser.Parse(string(data), relPath)
		if err != nil {
			results = append(results, ScanResult{RelPath: relPath, Err: err})
			return nil
		}

		results = append(results, ScanResult{
			RelPath: relPath,
			Note:    n,
			Hash:    atomicfile.Hash(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Notes returns the successfully parsed notes from a scan.
func Notes(results []ScanResult) []*note.Note {
	var notes []*note.Note
	for _, r := range results {
		if r.Err == nil && r.Note != nil {
			notes = append(notes, r.Note)
		}
	}
	return notes
}

// BrokenLink is a wiki-link whose target does not resolve to a note.
type BrokenLink struct {
	SourceID string
	Target   string
}

// BrokenLinks finds links_out entries that do not resolve to any note ID in
// the corpus. Targets are matched case-sensitively against full IDs and
// against bare filenames (Obsidian-style short links).
func BrokenLinks(notes []*note.Note) []BrokenLink {
	ids := make(map[string]struct{}, len(notes))
	basenames := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		ids[n.ID] = struct{}{}
		basenames[filepath.Base(n.ID)] = struct{}{}
	}

	var broken []BrokenLink
	for _, n := range notes {
		for _, target := range n.LinksOut {
			if _, ok := ids[target]; ok {
				continue
			}
			if _, ok := basenames[target]; ok {
				continue
			}
			broken = append(broken, BrokenLink{SourceID: n.ID, Target: target})
		}
	}
	return broken
}
