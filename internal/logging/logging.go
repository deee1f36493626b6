// Package logging provides a shared file logger for par-term, generalizing
// the ad hoc prefixed log.Printf calls scattered across the terminal and
// layout packages into one sink that also persists to disk.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFileName = "par-term.log"

var std = log.New(os.Stderr, "par-term: ", log.LstdFlags)

// Init redirects the shared logger's output to <configDir>/par-term.log,
// falling back to stderr-only if the file can't be opened. Safe to call
// more than once (e.g. after InitConfigDir resolves a later flag override).
func Init(configDir string) error {
	path := filepath.Join(configDir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	std = log.New(io.MultiWriter(os.Stderr, f), "par-term: ", log.LstdFlags)
	return nil
}

// Printf logs a formatted message through the shared logger.
func Printf(format string, args ...interface{}) {
	std.Printf(format, args...)
}

// Println logs args through the shared logger.
func Println(args ...interface{}) {
	std.Println(args...)
}

// Warnf logs a formatted warning-level message.
func Warnf(format string, args ...interface{}) {
	std.Printf("WARN "+format, args...)
}

// Errorf logs a formatted error-level message.
func Errorf(format string, args ...interface{}) {
	std.Printf("ERROR "+format, args...)
}
