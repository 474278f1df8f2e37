// Package api is the HTTP client for the tutoring backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 15 * time.Second

// Client talks to the backend REST API. Every request goes through a
// BearerTransport so the session token is attached when one exists.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	timeout    time.Duration
}

type ClientOption func(c *Client)

// WithHTTPClient replaces the underlying client. Its transport is wrapped,
// not replaced.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets where bearer tokens come from, usually the session store.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}

	base := http.DefaultTransport
	if c.httpClient != nil && c.httpClient.Transport != nil {
		base = c.httpClient.Transport
	}
	hc := &http.Client{}
	if c.httpClient != nil {
		*hc = *c.httpClient
	}
	hc.Transport = &BearerTransport{Base: Chain(base, LoggingMiddleware), Tokens: c.tokens}
	if hc.Timeout == 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = hc
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges user credentials for a token.
func (c *Client) Login(ctx context.Context, form users.LoginForm) (string, error) {
	return c.login(ctx, "/login", form)
}

// AdminLogin exchanges admin credentials for a token.
func (c *Client) AdminLogin(ctx context.Context, form users.LoginForm) (string, error) {
	return c.login(ctx, "/login/admin", form)
}

func (c *Client) login(ctx context.Context, path string, form users.LoginForm) (string, error) {
	if err := users.Validate(form); err != nil {
		return "", err
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, path, Credentials{Username: form.Username, Password: form.Password}, &resp); err != nil {
		return "", errors.Wrap(err, "[Login]")
	}
	if resp.Token == "" {
		return "", errors.New("[Login] backend returned an empty token")
	}
	return resp.Token, nil
}

// Register creates an account that must be activated with the emailed code.
func (c *Client) Register(ctx context.Context, form users.RegisterForm) (users.Timestamp, error) {
	if err := users.Validate(form); err != nil {
		return users.Timestamp{}, err
	}
	var resp RegisterResponse
	req := RegisterRequest{Username: form.Username, Email: form.Email, Password: form.Password}
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return users.Timestamp{}, errors.Wrap(err, "[Register]")
	}
	if resp.CreatedAt == "" {
		return users.Timestamp{}, nil
	}
	createdAt, err := users.ParseTimestamp(resp.CreatedAt)
	if err != nil {
		log.Warn().Err(err).Msg("[Register] unreadable created_at")
		return users.Timestamp{}, nil
	}
	return createdAt, nil
}

// ErrMalformedResponse is returned when a 2xx body lacks required fields.
var ErrMalformedResponse = errors.New("malformed response")

// Profile returns the account the current token belongs to. It is what the
// session store calls to validate a persisted token, so a body without a
// username is an error.
func (c *Client) Profile(ctx context.Context) (*users.Profile, error) {
	var profile users.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return nil, errors.Wrap(err, "[Profile]")
	}
	if profile.Username == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "[Profile] missing username")
	}
	return &profile, nil
}

// VerifyEmail activates a registered account.
func (c *Client) VerifyEmail(ctx context.Context, form users.ActivationForm) error {
	if err := users.Validate(form); err != nil {
		return err
	}
	path := "/verify_email/" + url.PathEscape(form.Username) + "?" + url.Values{"code": {form.Code}}.Encode()
	return errors.Wrap(c.do(ctx, http.MethodGet, path, nil, nil), "[VerifyEmail]")
}

// ModifyUsername renames the account of the given role.
func (c *Client) ModifyUsername(ctx context.Context, role users.Role, form users.ModifyUsernameForm) error {
	if err := users.Validate(form); err != nil {
		return err
	}
	req := ModifyUsernameRequest{NewUsername: form.NewUsername, Password: form.Password, Role: role.Collection()}
	return errors.Wrap(c.modify(ctx, "/modify/username", req), "[ModifyUsername]")
}

func (c *Client) ModifyPassword(ctx context.Context, role users.Role, form users.ModifyPasswordForm) error {
	if err := users.Validate(form); err != nil {
		return err
	}
	req := ModifyPasswordRequest{CurrentPassword: form.CurrentPassword, NewPassword: form.NewPassword, Role: role.Collection()}
	return errors.Wrap(c.modify(ctx, "/modify/password", req), "[ModifyPassword]")
}

func (c *Client) DeleteAccount(ctx context.Context, role users.Role) error {
	return errors.Wrap(c.modify(ctx, "/modify/delete", DeleteAccountRequest{Role: role.Collection()}), "[DeleteAccount]")
}

func (c *Client) modify(ctx context.Context, path string, body any) error {
	var resp ModifyResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	log.Debug().Str("path", path).Str("status", resp.Status).Msg("modify acknowledged")
	return nil
}

// Admin returns the admin endpoints as a users.Directory.
func (c *Client) Admin() *AdminClient {
	return &AdminClient{c: c}
}

// do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, data)
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg(apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
