// Package guard decides what a view may show for a given session. Views
// never inspect session fields directly; they ask Decide and act on the
// Decision.
package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-tutor-portal/sessions"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type View int

const (
	ViewHome View = iota
	ViewAbout
	ViewLogin
	ViewRegister
	ViewActivate
	ViewDashboard
	ViewAdminDashboard
	ViewChat
)

var viewPaths = map[View]string{
	ViewHome:           "/",
	ViewAbout:          "/about",
	ViewLogin:          "/login",
	ViewRegister:       "/register",
	ViewActivate:       "/activate",
	ViewDashboard:      "/dashboard",
	ViewAdminDashboard: "/admin/dashboard",
	ViewChat:           "/chat",
}

var ErrUnknownView = errors.New("unknown view")

func parseView(path string) (View, error) {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	for v, p := range viewPaths {
		if p == path {
			return v, nil
		}
	}
	return ViewHome, errors.Wrapf(ErrUnknownView, "%q", path)
}

func (v View) Path() string {
	if p, ok := viewPaths[v]; ok {
		return p
	}
	return fmt.Sprintf("view(%d)", int(v))
}

func (v View) String() string {
	return v.Path()
}

// Protected views require an authenticated session.
func (v View) Protected() bool {
	switch v {
	case ViewDashboard, ViewAdminDashboard, ViewChat:
		return true
	default:
		return false
	}
}

type Action int

const (
	ActionRender Action = iota
	ActionWait
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionWait:
		return "wait"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of guarding a view.
type Decision struct {
	Action  Action
	Target  View   // Redirect destination, only set for ActionRedirect
	Logout  bool   // The session must be discarded before redirecting
	Refresh bool   // The profile is missing and Initialize should run again
	Reason  string // Human readable explanation
}

func render(reason string) Decision {
	return Decision{Action: ActionRender, Reason: reason}
}

func redirect(to View, reason string) Decision {
	return Decision{Action: ActionRedirect, Target: to, Reason: reason}
}

// Decide applies the routing rules of view to a session snapshot and the
// effective role (sessions.Store.Role, which falls back to the persisted role).
func Decide(view View, s sessions.Session, role users.Role) Decision {
	if !view.Protected() {
		return decidePublic(view, s)
	}

	if s.IsLoading {
		return Decision{Action: ActionWait, Reason: "session unresolved"}
	}
	if !s.IsAuthenticated {
		return redirect(ViewLogin, "not logged in")
	}

	switch view {
	case ViewDashboard:
		switch role {
		case users.RoleAdmin:
			return redirect(ViewAdminDashboard, "admins use the admin dashboard")
		case users.RoleUser:
			return render("user session")
		default:
			d := redirect(ViewLogin, "unable to determine role")
			d.Logout = true
			return d
		}
	case ViewAdminDashboard:
		if role != users.RoleAdmin {
			return redirect(ViewDashboard, "admin role required")
		}
		d := render("admin session")
		d.Refresh = s.User == nil
		return d
	default:
		return render("authenticated")
	}
}

func decidePublic(view View, s sessions.Session) Decision {
	switch view {
	case ViewHome, ViewRegister, ViewActivate:
		if !s.IsLoading && s.IsAuthenticated {
			return redirect(ViewDashboard, "already logged in")
		}
	}
	return render("public view")
}

// Evaluate guards view against the store's current state and carries out
// the side effects the decision asks for: a logout, or a profile refresh
// followed by a fresh decision.
func Evaluate(ctx context.Context, store *sessions.Store, view View) Decision {
	d := Decide(view, store.Snapshot(), store.Role())

	if d.Logout {
		log.Warn().Str("view", view.Path()).Msg(d.Reason)
		store.Logout()
	}
	if d.Refresh {
		store.Initialize(ctx)
		d = Decide(view, store.Snapshot(), store.Role())
		d.Refresh = false
	}

	log.Debug().
		Str("view", view.Path()).
		Str("phase", store.Phase().String()).
		Str("action", d.Action.String()).
		Str("reason", d.Reason).
		Msg("guard")
	return d
}
