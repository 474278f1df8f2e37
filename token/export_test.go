package token

import "io"

// SetWriterFactory swaps the gzip writer constructor and returns a restore func.
func SetWriterFactory(f func(w io.Writer) (io.WriteCloser, error)) func() {
	prev := newWriter
	newWriter = f
	return func() { newWriter = prev }
}
