// Package logbuf buffers log output for later replay, so full-screen
// terminal programs are not torn by interleaved log lines.
package logbuf

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter is an io.Writer that holds everything written to it until
// Flush replays the content to another writer. The zero value is ready to
// use and safe for concurrent writes.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Flush replays the buffered content to out, one line per write so
// line-oriented consumers like zerolog.ConsoleWriter can parse each event,
// then resets the buffer.
func (w *DeferredWriter) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, line := range bytes.SplitAfter(w.buf.Bytes(), []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
	}

	w.buf.Reset()
	return nil
}

// Len reports the number of buffered bytes.
func (w *DeferredWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Len()
}
