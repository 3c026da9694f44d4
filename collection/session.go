// Package collection holds the create/edit/delete workflow shared by every
// table editor.
package collection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyKey     = errors.New("key is required")
	ErrEmptyName    = errors.New("name is required")
	ErrDuplicateKey = errors.New("key already exists")
	ErrIndex        = errors.New("index out of range")
	ErrNoPending    = errors.New("no delete pending")
)

// Store loads and saves the whole collection.
type Store[T any] interface {
	Load() ([]T, error)
	Save(items []T) error
}

type ModeKind int

const (
	ModeClosed ModeKind = iota
	ModeCreating
	ModeEditing
	ModeConfirmingDelete
)

func (k ModeKind) String() string {
	switch k {
	case ModeClosed:
		return "Closed"
	case ModeCreating:
		return "Creating"
	case ModeEditing:
		return "Editing"
	case ModeConfirmingDelete:
		return "ConfirmingDelete"
	default:
		return "Unknown"
	}
}

// Mode is the single open dialog of a session. Index is only meaningful for
// Editing and ConfirmingDelete.
type Mode struct {
	Kind  ModeKind
	Index int
}

func Closed() Mode                   { return Mode{Kind: ModeClosed, Index: -1} }
func Creating() Mode                 { return Mode{Kind: ModeCreating, Index: -1} }
func Editing(i int) Mode             { return Mode{Kind: ModeEditing, Index: i} }
func ConfirmingDelete(i int) Mode    { return Mode{Kind: ModeConfirmingDelete, Index: i} }
func (m Mode) Is(kind ModeKind) bool { return m.Kind == kind }

type PendingDelete struct {
	Index       int
	DisplayName string
}

// Session is the editing state of one collection. It is not safe for
// concurrent use.
type Session[T any] struct {
	Items []T
	Dirty bool

	store    Store[T]
	key      func(T) string
	name     func(T) string
	clone    func(T) T
	mode     Mode
	selected int
	buffer   T
	pending  *PendingDelete
}

// Option configures a Session.
type Option[T any] func(*Session[T])

// WithClone sets the copy used for edit buffers. Records holding slices or
// maps need a deep copy so uncommitted edits do not leak into Items.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Session[T]) { s.clone = clone }
}

func NewSession[T any](store Store[T], key, name func(T) string, opts ...Option[T]) *Session[T] {
	s := &Session[T]{
		store:    store,
		key:      key,
		name:     name,
		clone:    func(v T) T { return v },
		mode:     Closed(),
		selected: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the collection from the store.
func (s *Session[T]) Open() error {
	items, err := s.store.Load()
	if err != nil {
		return err
	}
	s.Items = items
	s.Dirty = false
	s.mode = Closed()
	s.pending = nil
	s.selected = -1
	return nil
}

func (s *Session[T]) Mode() Mode { return s.mode }

func (s *Session[T]) Len() int { return len(s.Items) }

func (s *Session[T]) inRange(i int) bool { return i >= 0 && i < len(s.Items) }

func (s *Session[T]) Selected() int { return s.selected }

// Select marks i as the selected row. Out of range clears the selection.
func (s *Session[T]) Select(i int) {
	if !s.inRange(i) {
		s.selected = -1
		return
	}
	s.selected = i
}

// Find returns the index of the record with key, or -1.
func (s *Session[T]) Find(key string) int {
	for i, item := range s.Items {
		if s.key(item) == key {
			return i
		}
	}
	return -1
}

func (s *Session[T]) Keys() []string {
	keys := make([]string, len(s.Items))
	for i, item := range s.Items {
		keys[i] = s.key(item)
	}
	return keys
}

func (s *Session[T]) BeginCreate() {
	s.mode = Creating()
	s.pending = nil
}

// Create validates and appends item. On error nothing changes.
func (s *Session[T]) Create(item T) (T, error) {
	var zero T
	key := strings.TrimSpace(s.key(item))
	if key == "" {
		return zero, ErrEmptyKey
	}
	if strings.TrimSpace(s.name(item)) == "" {
		return zero, ErrEmptyName
	}
	if s.Find(key) >= 0 {
		return zero, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	s.Items = append(s.Items, item)
	s.Dirty = true
	s.mode = Closed()
	s.selected = len(s.Items) - 1
	return item, nil
}

// BeginEdit copies Items[i] into the edit buffer. Any buffer already open is
// replaced without warning. Out of range closes the editor and returns false.
func (s *Session[T]) BeginEdit(i int) bool {
	if !s.inRange(i) {
		s.Close()
		return false
	}
	s.buffer = s.clone(s.Items[i])
	s.mode = Editing(i)
	s.pending = nil
	s.selected = i
	return true
}

// Buffer returns the open edit buffer, or nil when not editing.
func (s *Session[T]) Buffer() *T {
	if !s.mode.Is(ModeEditing) {
		return nil
	}
	return &s.buffer
}

// CommitEdit applies mutate to the buffer for i and writes it back.
func (s *Session[T]) CommitEdit(i int, mutate func(*T)) error {
	if !s.inRange(i) {
		s.Close()
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	if !s.mode.Is(ModeEditing) || s.mode.Index != i {
		s.buffer = s.clone(s.Items[i])
	}
	if mutate != nil {
		mutate(&s.buffer)
	}
	s.Items[i] = s.buffer
	s.Dirty = true
	s.mode = Closed()
	return nil
}

// RequestDelete opens the delete confirmation for i.
func (s *Session[T]) RequestDelete(i int) bool {
	if !s.inRange(i) {
		s.Close()
		return false
	}
	s.pending = &PendingDelete{Index: i, DisplayName: s.name(s.Items[i])}
	s.mode = ConfirmingDelete(i)
	return true
}

func (s *Session[T]) Pending() (PendingDelete, bool) {
	if s.pending == nil {
		return PendingDelete{}, false
	}
	return *s.pending, true
}

// ConfirmDelete removes the pending record. A stale index closes the dialog
// without touching Items.
func (s *Session[T]) ConfirmDelete() (T, error) {
	var zero T
	if s.pending == nil {
		return zero, ErrNoPending
	}
	i := s.pending.Index
	s.pending = nil
	s.mode = Closed()
	if !s.inRange(i) {
		return zero, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	removed := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	s.Dirty = true
	switch {
	case s.selected == i:
		s.selected = -1
	case s.selected > i:
		s.selected--
	}
	return removed, nil
}

func (s *Session[T]) CancelDelete() {
	s.pending = nil
	s.mode = Closed()
}

// Close dismisses whatever dialog is open without changing Items.
func (s *Session[T]) Close() {
	s.pending = nil
	s.mode = Closed()
	var zero T
	s.buffer = zero
}

// DiscardAll reloads from the store and clears Dirty.
func (s *Session[T]) DiscardAll() error {
	return s.Open()
}

// SaveAll writes Items to the store and clears Dirty.
func (s *Session[T]) SaveAll() error {
	if err := s.store.Save(s.Items); err != nil {
		return err
	}
	s.Dirty = false
	return nil
}

// MarkDirty records a mutation made directly on Items.
func (s *Session[T]) MarkDirty() { s.Dirty = true }
