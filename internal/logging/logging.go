// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured operator logger shared by the CLI,
// discovery, checker and watch packages. The validation engine itself never logs.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix tags every log line.
const Prefix = "metacheck"

// Options configures New.
type Options struct {
	// Verbose enables debug-level output.
	Verbose bool
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

// New returns a logger writing to opts.Writer at info level, or debug level
// when opts.Verbose is set.
func New(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
