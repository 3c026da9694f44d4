package main

import (
	"github.com/ebitenui/ebitenui/widget"
)

// entryList wraps a widget.List of listEntry rows. Programmatic updates do
// not reach onSelect.
type entryList struct {
	list     *widget.List
	entries  []any
	onSelect func(idx int)
	// suppressEvents is set while the list is repopulated or selected from
	// code.
	suppressEvents bool
}

func newEntryList(minHeight int, onSelect func(idx int)) *entryList {
	el := &entryList{onSelect: onSelect}
	el.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(listEntry); ok {
				return entry.Label
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if el.suppressEvents || el.onSelect == nil {
				return
			}
			if entry, ok := args.Entry.(listEntry); ok {
				el.onSelect(entry.Index)
			}
		}),
	)
	el.list.GetWidget().MinHeight = minHeight
	return el
}

func (el *entryList) SetEntries(entries []listEntry) {
	el.suppressEvents = true
	el.entries = make([]any, len(entries))
	for i, e := range entries {
		el.entries[i] = e
	}
	el.list.SetEntries(el.entries)
	el.suppressEvents = false
}

// SetSelected highlights the row whose Index is idx, if present.
func (el *entryList) SetSelected(idx int) {
	for _, e := range el.entries {
		if e.(listEntry).Index == idx {
			el.suppressEvents = true
			el.list.SetSelectedEntry(e)
			el.suppressEvents = false
			return
		}
	}
}
