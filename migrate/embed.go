package migrate

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed migrations/*.yaml migrations/scripts/*.tengo
var MigrationsFS embed.FS

// Source reads migration manifests and scripts, preferring files under Dir
// over the embedded copies.
type Source struct {
	Dir string
}

func (s Source) Read(name string) ([]byte, error) {
	clean := cleanMigrationPath(name)
	if s.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return MigrationsFS.ReadFile("migrations/" + clean)
}

// ReadScript resolves a script reference from a manifest.
func (s Source) ReadScript(name string) ([]byte, error) {
	return s.Read(cleanScriptPath(name))
}

// Manifests lists manifest names from the embedded set and Dir, sorted.
func (s Source) Manifests() ([]string, error) {
	seen := make(map[string]struct{})
	embedded, err := fs.Glob(MigrationsFS, "migrations/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("migrate: list embedded manifests: %w", err)
	}
	for _, p := range embedded {
		seen[strings.TrimPrefix(p, "migrations/")] = struct{}{}
	}
	if s.Dir != "" {
		if onDisk, err := filepath.Glob(filepath.Join(s.Dir, "*.yaml")); err == nil {
			for _, p := range onDisk {
				seen[filepath.Base(p)] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func cleanMigrationPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "migrations/"); ok {
		s = after
	}
	return s
}

func cleanScriptPath(path string) string {
	s := cleanMigrationPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return "scripts/" + s
}
