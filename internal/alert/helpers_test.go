package alert

import (
	"io"
	"testing"
)

// ioPipe returns a pipe whose reader blocks until the writer is closed.
func ioPipe(t *testing.T) (*io.PipeReader, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	t.Cleanup(func() {
		_ = w.Close()
		_ = r.Close()
	})
	return r, w
}
