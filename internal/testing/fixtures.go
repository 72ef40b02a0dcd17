package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// NewMemFs returns an in-memory filesystem populated with files, keyed by
// path.
func NewMemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	WriteFiles(t, fs, files)
	return fs
}

// WriteFiles writes every entry of files to fs, creating parent directories.
func WriteFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()

	for path, content := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", path, err)
		}
	}
}

// WriteCorpus writes one "<corpus>.<lang>" file per entry of byLanguage
// into dir and returns their paths sorted.
func WriteCorpus(t *testing.T, fs afero.Fs, dir, corpus string, byLanguage map[string]string) []string {
	t.Helper()

	files := make(map[string]string, len(byLanguage))
	paths := make([]string, 0, len(byLanguage))
	for lang, content := range byLanguage {
		path := filepath.Join(dir, corpus+"."+lang)
		files[path] = content
		paths = append(paths, path)
	}
	WriteFiles(t, fs, files)

	sort.Strings(paths)
	return paths
}

// ReadString reads path from fs, failing the test on error.
func ReadString(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
