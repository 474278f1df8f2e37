// Package chat builds the link to the embedded chat application.
package chat

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-tutor-portal/token"
)

const (
	DefaultBaseURL = "https://dify.ai"
	TokenParam     = "tok"
)

// URL appends the encoded token to base as the tok query parameter. The
// second result is false when there is no token or it could not be encoded,
// in which case no URL is built.
func URL(base, rawToken string) (string, bool) {
	if rawToken == "" {
		return "", false
	}
	encoded := token.Encode(rawToken)
	if encoded == "" {
		return "", false
	}

	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseURL
	}

	// encoded is already query-escaped, so it is appended as is rather than
	// through url.Values.
	param := TokenParam + "=" + encoded
	if u, err := url.Parse(base); err == nil && u.Fragment != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += param
		return u.String(), true
	}

	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	} else if strings.HasSuffix(base, "?") {
		sep = ""
	}
	return base + sep + param, true
}
