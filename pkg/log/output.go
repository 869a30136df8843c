package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to a writer (stdout by default).
// Writes are serialized so concurrent loggers do not interleave lines.
type ConsoleOutput struct {
	// Writer receives formatted entries. Defaults to os.Stdout when nil.
	Writer io.Writer

	mu sync.Mutex
}

// NewConsoleOutput returns a ConsoleOutput targeting stdout.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{Writer: os.Stdout}
}

// Write implements Output.
func (o *ConsoleOutput) Write(_ *Entry, formattedEntry []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := w.Write(formattedEntry)
	return err
}

// Close implements Output. Console writers are not owned, so this is a no-op.
func (o *ConsoleOutput) Close() error {
	return nil
}
