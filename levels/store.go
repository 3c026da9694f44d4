package levels

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/milk9111/akdata/migrate"
)

var fileNameRe = regexp.MustCompile(`^level_main_(.+)\.json$`)

func FileName(id string) string { return "level_main_" + id + ".json" }

// ParseFileName extracts the level id from a file name.
func ParseFileName(name string) (string, bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValidID reports whether id can name a level file.
func ValidID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrBadID)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return nil
}

// Store is the directory of level files.
type Store struct {
	Dir      string
	Registry *migrate.Registry
}

func NewStore(dir, migrationsDir string) (*Store, error) {
	reg, err := migrate.Standard(migrate.KindLevel, []byte("{}"), migrationsDir)
	if err != nil {
		return nil, err
	}
	return &Store{Dir: dir, Registry: reg}, nil
}

func (s *Store) Path(id string) string { return filepath.Join(s.Dir, FileName(id)) }

// List returns the ids of every level file, sorted. A missing directory has
// no levels.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("levels: list %s: %w", s.Dir, err)
	}
	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := ParseFileName(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Load reads and migrates one level. A missing or unparsable file gives an
// empty level. A file that parses but does not decode also gives an empty
// level, marked Unreadable so Save leaves the file alone.
func (s *Store) Load(id string) (*Level, error) {
	doc, migrated, err := s.Registry.LoadFile(s.Path(id))
	if err != nil {
		return nil, err
	}
	l, err := Decode(id, doc.Raw)
	if err != nil {
		log.Printf("levels: %s: decode: %v, using defaults", id, err)
		l = NewLevel(id)
		l.Modified = false
		l.Unreadable = true
		return l, nil
	}
	l.Migrated = migrated
	l.From = doc.From
	return l, nil
}

func (s *Store) Save(l *Level) error {
	if l.Unreadable && s.Exists(l.ID) {
		return fmt.Errorf("levels: save %s: %w", l.ID, ErrUnreadable)
	}
	raw, err := l.Encode()
	if err != nil {
		return fmt.Errorf("levels: encode %s: %w", l.ID, err)
	}
	if err := migrate.WriteFile(s.Path(l.ID), raw); err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	l.Modified = false
	l.Migrated = false
	return nil
}

func (s *Store) Delete(id string) error {
	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("levels: delete %s: %w", id, err)
	}
	log.Printf("Deleted level: %s", id)
	return nil
}
