//go:build dialog
// +build dialog

package main

import (
	"github.com/sqweek/dialog"
)

// openRootDialog opens the native folder picker and returns the chosen data
// root.
func openRootDialog() (string, error) {
	return dialog.Directory().Title("Select data root").Browse()
}
