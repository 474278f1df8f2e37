// Package token turns a bearer token into a compact value that can ride in a
// URL query string. The transform is one way; the chat service decodes it.
package token

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// newWriter builds the gzip writer. Fixed level and an empty header keep the
// output deterministic.
var newWriter = func(w io.Writer) (io.WriteCloser, error) { // mockable
	return gzip.NewWriterLevel(w, gzip.BestCompression)
}

// Encode gzips the UTF-8 bytes of raw, Base64 encodes them and query-escapes
// the result. It returns "" on any failure; callers must then treat the token
// as unavailable rather than build a URL.
func Encode(raw string) string {
	compressed, err := compress(strings.ToValidUTF8(raw, "�"))
	if err != nil {
		log.Error().Err(err).Int("length", len(raw)).Msg("token encode failed")
		return ""
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(compressed))
}

func compress(text string) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := newWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "[compress] gzip writer")
	}
	if _, err := io.WriteString(zw, text); err != nil {
		zw.Close()
		return nil, errors.Wrap(err, "[compress] write")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "[compress] close")
	}
	return buf.Bytes(), nil
}
