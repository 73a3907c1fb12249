//go:build windows

package cmd

import (
	"errors"
	"os"
)

// getTermWidthIoctl returns 0 on Windows; width detection falls back to $COLUMNS.
func getTermWidthIoctl() int {
	return 0
}

func checkTerminal() error {
	if os.Getenv("TERM") == "dumb" {
		return errors.New("TERM=dumb is not supported")
	}
	return nil
}

// acquireLock is a no-op on Windows.
func acquireLock(string) (func(), error) {
	return func() {}, nil
}
