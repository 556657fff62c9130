// Package source provides the text media a toroid grid is loaded from: a
// file on disk with an fsnotify watcher, and an in-memory buffer.
package source

import (
	"io"
	"os"

	"charm.land/log/v2"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "source",
	})
}

// SetLogLevel sets the logging level for the source package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Notifier delivers change notifications. The channel carries no content;
// receivers re-read the source. At most one notification is pending at a time.
type Notifier interface {
	Changes() <-chan struct{}
}

// notify raises the pending flag without blocking.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
