package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/akdata/collection"
	"github.com/milk9111/akdata/rangegrid"
)

// recordKind adapts one record type to the generic table tab.
type recordKind[T any] struct {
	name  string
	label func(T) string
	// build fills the form for a fresh record.
	fresh func() T
	// fields adds the inputs to f.
	fields func(f *form)
	// toForm shows item in f and returns its range grid, if it has one.
	toForm func(f *form, item T) rangegrid.Grid
	// fromForm builds a record from f. base is the record being edited, nil
	// while creating.
	fromForm func(f *form, base *T, grid rangegrid.Grid) (T, error)
	clone    func(T) T
	// outside lists stored range offsets the grid cannot show. Nil for
	// records without a range.
	outside func(T) []rangegrid.Offset
}

type tableTab[T any] struct {
	host    host
	kind    recordKind[T]
	session *collection.Session[T]
	panel   *widget.Container
	form    *form
	mode    *widget.Text
	grid    rangegrid.Grid
	save    func() error
	dirty   func() bool
	reload  func() error
	paths   func() []string
}

func newTableTab[T any](k *kit, h host, kind recordKind[T], session *collection.Session[T]) *tableTab[T] {
	t := &tableTab[T]{host: h, kind: kind, session: session}
	t.panel = k.column(6)
	t.mode = k.text("", labelColor.Idle)
	t.panel.AddChild(t.mode)
	t.form = newForm(k, "")
	kind.fields(t.form)
	t.panel.AddChild(t.form.Container)
	t.panel.AddChild(k.button("Apply", func() {
		if err := t.Submit(); err != nil {
			h.Status("%s: %v", kind.name, err)
		}
	}))
	t.showMode()
	return t
}

func (t *tableTab[T]) Name() string             { return t.kind.name }
func (t *tableTab[T]) Panel() *widget.Container { return t.panel }
func (t *tableTab[T]) Selected() int            { return t.session.Selected() }

func (t *tableTab[T]) Entries() []listEntry {
	out := make([]listEntry, len(t.session.Items))
	for i, item := range t.session.Items {
		out[i] = listEntry{Index: i, Label: t.kind.label(item)}
	}
	return out
}

func (t *tableTab[T]) showMode() {
	m := t.session.Mode()
	switch m.Kind {
	case collection.ModeCreating:
		t.mode.Label = "New " + t.kind.name
	case collection.ModeEditing:
		t.mode.Label = fmt.Sprintf("Editing %s", t.kind.label(t.session.Items[m.Index]))
	default:
		t.mode.Label = "Select a record or press New"
	}
}

func (t *tableTab[T]) Select(i int) {
	if !t.session.BeginEdit(i) {
		t.showMode()
		return
	}
	item := *t.session.Buffer()
	t.grid = t.kind.toForm(t.form, item)
	t.showMode()
	if t.kind.outside == nil {
		return
	}
	if lost := t.kind.outside(item); len(lost) > 0 {
		t.host.Status("%s: %d range offset(s) lie outside the %dx%d grid and are dropped on Apply",
			t.kind.label(item), len(lost), t.grid.Size(), t.grid.Size())
	}
}

func (t *tableTab[T]) BeginCreate() {
	t.session.BeginCreate()
	t.grid = t.kind.toForm(t.form, t.kind.fresh())
	t.showMode()
}

func (t *tableTab[T]) Submit() error {
	m := t.session.Mode()
	switch m.Kind {
	case collection.ModeCreating:
		item, err := t.kind.fromForm(t.form, nil, t.grid)
		if err != nil {
			return err
		}
		if _, err := t.session.Create(item); err != nil {
			return err
		}
		t.host.Status("Created %s", t.kind.label(item))
		t.Select(t.session.Selected())
	case collection.ModeEditing:
		item, err := t.kind.fromForm(t.form, t.session.Buffer(), t.grid)
		if err != nil {
			return err
		}
		if err := t.session.CommitEdit(m.Index, func(p *T) { *p = item }); err != nil {
			return err
		}
		t.host.Status("Updated %s", t.kind.label(item))
		t.Select(m.Index)
	default:
		return errors.New("nothing to apply")
	}
	t.host.Refresh()
	return nil
}

func (t *tableTab[T]) RequestDelete(i int) (string, bool) {
	if !t.session.RequestDelete(i) {
		return "", false
	}
	p, _ := t.session.Pending()
	return p.DisplayName, true
}

func (t *tableTab[T]) ConfirmDelete() error {
	item, err := t.session.ConfirmDelete()
	if err != nil {
		return err
	}
	t.host.Status("Deleted %s", t.kind.label(item))
	t.showMode()
	return nil
}

func (t *tableTab[T]) CancelDelete() {
	t.session.CancelDelete()
	t.showMode()
}

func (t *tableTab[T]) Copy() ([]byte, error) {
	i := t.session.Selected()
	if i < 0 || i >= t.session.Len() {
		return nil, errors.New("no record selected")
	}
	return json.MarshalIndent(t.session.Items[i], "", "  ")
}

// Paste adds a record from JSON through the normal create checks.
func (t *tableTab[T]) Paste(data []byte) error {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return fmt.Errorf("clipboard does not hold a %s: %w", t.kind.name, err)
	}
	if t.kind.clone != nil {
		item = t.kind.clone(item)
	}
	if _, err := t.session.Create(item); err != nil {
		return err
	}
	t.Select(t.session.Selected())
	return nil
}

func (t *tableTab[T]) Dirty() bool     { return t.dirty() }
func (t *tableTab[T]) SaveAll() error  { return t.save() }
func (t *tableTab[T]) Paths() []string { return t.paths() }

func (t *tableTab[T]) Reload() error {
	if err := t.reload(); err != nil {
		return err
	}
	t.grid = rangegrid.Grid{}
	t.showMode()
	return nil
}

func (t *tableTab[T]) UpdateCanvas(area image.Rectangle) {
	if t.grid.Cells == nil || t.session.Mode().Is(collection.ModeClosed) {
		return
	}
	if r, c, ok := rangeCellAt(t.grid, area); ok {
		t.grid.Toggle(r, c)
	}
}

func (t *tableTab[T]) DrawCanvas(screen *ebiten.Image, area image.Rectangle) {
	if t.grid.Cells == nil || t.session.Mode().Is(collection.ModeClosed) {
		return
	}
	drawRangeGrid(screen, t.grid, area)
}
