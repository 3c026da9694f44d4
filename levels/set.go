package levels

import (
	"fmt"
	"sort"

	"github.com/milk9111/akdata/collection"
)

// LevelSet is the list of levels in one directory, edited through a
// collection session. Unlike the entity tables every level is its own file,
// so dirtiness is tracked per level.
type LevelSet struct {
	Store   *Store
	Session *collection.Session[*Level]
}

type setStore struct{ s *Store }

func (a setStore) Load() ([]*Level, error) {
	ids, err := a.s.List()
	if err != nil {
		return nil, err
	}
	out := make([]*Level, 0, len(ids))
	for _, id := range ids {
		l, err := a.s.Load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Save writes levels that changed since they were read.
func (a setStore) Save(items []*Level) error {
	for _, l := range items {
		if !l.Modified && !l.Migrated {
			continue
		}
		if err := a.s.Save(l); err != nil {
			return err
		}
	}
	return nil
}

func NewLevelSet(store *Store) *LevelSet {
	sess := collection.NewSession[*Level](setStore{store},
		func(l *Level) string { return l.ID },
		func(l *Level) string { return l.ID },
	)
	return &LevelSet{Store: store, Session: sess}
}

func (s *LevelSet) Open() error { return s.Session.Open() }

func (s *LevelSet) Len() int { return s.Session.Len() }

func (s *LevelSet) At(i int) (*Level, bool) {
	if i < 0 || i >= s.Session.Len() {
		return nil, false
	}
	return s.Session.Items[i], true
}

// Create adds an empty level and keeps the list sorted by id. The new level
// is written on the next SaveAll.
func (s *LevelSet) Create(id string) (*Level, error) {
	return s.Add(NewLevel(id))
}

// Add inserts an existing level, such as one pasted from the clipboard, and
// marks it for saving.
func (s *LevelSet) Add(l *Level) (*Level, error) {
	if err := ValidID(l.ID); err != nil {
		return nil, err
	}
	id := l.ID
	l.Modified = true
	l, err := s.Session.Create(l)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(s.Session.Items, func(i, j int) bool {
		return s.Session.Items[i].ID < s.Session.Items[j].ID
	})
	s.Session.Select(s.Session.Find(id))
	return l, nil
}

// ConfirmDelete removes the pending level and its file.
func (s *LevelSet) ConfirmDelete() (*Level, error) {
	l, err := s.Session.ConfirmDelete()
	if err != nil {
		return nil, err
	}
	if err := s.Store.Delete(l.ID); err != nil {
		return l, err
	}
	return l, nil
}

// Dirty reports whether any level needs saving.
func (s *LevelSet) Dirty() bool {
	for _, l := range s.Session.Items {
		if l.Modified || l.Migrated {
			return true
		}
	}
	return false
}

func (s *LevelSet) SaveAll() error {
	if err := s.Session.SaveAll(); err != nil {
		return fmt.Errorf("levels: save all: %w", err)
	}
	return nil
}

func (s *LevelSet) DiscardAll() error { return s.Session.DiscardAll() }
