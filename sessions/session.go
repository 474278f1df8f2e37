package sessions

import (
	"github.com/jrsteele09/go-tutor-portal/users"
)

// Session is the resolved in-memory authentication state.
// A freshly created store starts Unresolved (IsLoading set).
type Session struct {
	User            *users.Profile // Cached profile, nil until a profile fetch succeeds
	IsAuthenticated bool           // True after Login or a successful Initialize
	IsLoading       bool           // True only until the first Initialize completes
	Role            users.Role     // RoleNone stands for "no role"
}

// Phase names the state machine position of a Session.
type Phase int

const (
	// PhaseUnresolved is the initial state before Initialize completes.
	PhaseUnresolved Phase = iota
	// PhaseAnonymous means no valid session.
	PhaseAnonymous
	// PhaseProfilePending follows Login: authenticated, profile not loaded yet.
	PhaseProfilePending
	// PhaseAuthenticated is a verified session with a loaded profile.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseProfilePending:
		return "profile-pending"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Phase derives the state machine position.
func (s Session) Phase() Phase {
	switch {
	case s.IsAuthenticated && s.User == nil:
		return PhaseProfilePending
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.IsLoading:
		return PhaseUnresolved
	default:
		return PhaseAnonymous
	}
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
