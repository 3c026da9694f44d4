package main

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func initClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

func copyToClipboard(data []byte) error {
	if err := initClipboard(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

func readClipboard() ([]byte, error) {
	if err := initClipboard(); err != nil {
		return nil, err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return nil, errors.New("clipboard is empty")
	}
	return data, nil
}
