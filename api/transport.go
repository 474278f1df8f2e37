package api

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const requestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token to attach, or "" for none.
// *sessions.Store satisfies it.
type TokenSource interface {
	Token() string
}

// BearerTransport decorates every outgoing request with the session's bearer
// token, when there is one, and a request ID.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
}

var _ http.RoundTripper = (*BearerTransport)(nil)

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())

	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}
	if t.Tokens != nil {
		if tok := t.Tokens.Token(); tok != "" {
			(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(r)
		}
	}
	return t.base().RoundTrip(r)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
