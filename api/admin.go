package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// AdminClient wraps the admin-only endpoints. Calls fail with a 401 or 403
// *Error unless the session holds an admin token.
type AdminClient struct {
	c *Client
}

var _ users.Directory = (*AdminClient)(nil)

func (a *AdminClient) List(ctx context.Context) ([]users.Summary, error) {
	var resp userListResponse
	if err := a.c.do(ctx, http.MethodGet, "/admin/users", nil, &resp); err != nil {
		return nil, errors.Wrap(err, "[ListUsers]")
	}

	summaries := make([]users.Summary, 0, len(resp.Usernames))
	for i, username := range resp.Usernames {
		s := users.Summary{Username: username}
		if i < len(resp.Emails) {
			s.Email = resp.Emails[i]
		}
		if i < len(resp.CreatedAt) {
			ts, err := users.ParseTimestamp(resp.CreatedAt[i])
			if err != nil {
				log.Warn().Err(err).Str("username", username).Msg("[ListUsers] unreadable created_at")
			}
			s.CreatedAt = ts
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (a *AdminClient) Delete(ctx context.Context, username string) error {
	if username == "" {
		return errors.New("[DeleteUser] username required")
	}
	var resp ModifyResponse
	return errors.Wrap(a.c.do(ctx, http.MethodPost, "/admin/delete_user", DeleteUserRequest{Username: username}, &resp), "[DeleteUser]")
}

func (a *AdminClient) Stats(ctx context.Context, username string) (*users.Stats, error) {
	if username == "" {
		return nil, errors.New("[UserStats] username required")
	}
	var stats users.Stats
	if err := a.c.do(ctx, http.MethodGet, "/admin/stats/"+url.PathEscape(username), nil, &stats); err != nil {
		return nil, errors.Wrap(err, "[UserStats]")
	}
	return &stats, nil
}

func (a *AdminClient) Broadcast(ctx context.Context, form users.BroadcastForm) error {
	if err := users.Validate(form); err != nil {
		return err
	}
	var resp ModifyResponse
	return errors.Wrap(a.c.do(ctx, http.MethodPost, "/admin/broadcast", BroadcastRequest{Subject: form.Subject, Body: form.Body}, &resp), "[Broadcast]")
}
