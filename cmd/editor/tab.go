package main

import (
	"image"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

// listEntry is one row of the shared record list.
type listEntry struct {
	Index int
	Label string
}

// tab is one data category in the editor window.
type tab interface {
	Name() string
	Panel() *widget.Container
	Entries() []listEntry
	Selected() int
	Select(i int)
	BeginCreate()
	Submit() error
	RequestDelete(i int) (string, bool)
	ConfirmDelete() error
	CancelDelete()
	Copy() ([]byte, error)
	Paste(data []byte) error
	Dirty() bool
	SaveAll() error
	Reload() error
	// Paths lists the files SaveAll may write.
	Paths() []string

	UpdateCanvas(area image.Rectangle)
	DrawCanvas(screen *ebiten.Image, area image.Rectangle)
}

// host is what tabs need from the surrounding editor.
type host interface {
	Status(format string, args ...any)
	Confirm(message string, onYes func())
	Prompt(label, initial string, onEnter func(string))
	Refresh()
	EnemyKeys() []string
	OperatorIDs() []string
}
