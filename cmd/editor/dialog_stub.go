//go:build !dialog
// +build !dialog

package main

import "errors"

// openRootDialog is a stub used when the native dialog build tag isn't set.
func openRootDialog() (string, error) {
	return "", errors.New("native file dialog unavailable; build with -tags dialog to enable")
}
