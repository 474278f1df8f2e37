package users

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Role is the coarse authorization tag the backend issues at login.
type Role string

const (
	RoleNone  Role = ""      // No resolved role
	RoleAdmin Role = "admin" // Admin panel access
	RoleUser  Role = "user"  // Regular tutoring user
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a stored or user supplied value into a Role.
// The backend's collection names ("admins", "users") are accepted too.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return RoleNone, nil
	case "admin", "admins":
		return RoleAdmin, nil
	case "user", "users":
		return RoleUser, nil
	default:
		return RoleNone, errors.Wrapf(ErrInvalidRole, "%q", value)
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

// Collection returns the name the backend uses for the role's account table.
// Account modification requests carry this value.
func (r Role) Collection() string {
	switch r {
	case RoleAdmin:
		return "admins"
	case RoleUser:
		return "users"
	default:
		return ""
	}
}

// Profile is the authenticated account as reported by the profile endpoint.
type Profile struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// Summary is one row of the admin user listing.
type Summary struct {
	Username  string
	Email     string
	CreatedAt Timestamp
}

// TagCount is a single tag with the number of conversations carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// UnmarshalJSON decodes the backend's ["tag", count] pair form.
func (tc *TagCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "[TagCount] expected [tag, count]")
	}
	if len(pair) != 2 {
		return fmt.Errorf("[TagCount] expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &tc.Tag); err != nil {
		return errors.Wrap(err, "[TagCount] tag")
	}
	var count float64
	if err := json.Unmarshal(pair[1], &count); err != nil {
		return errors.Wrap(err, "[TagCount] count")
	}
	tc.Count = int(count)
	return nil
}

// Stats is the per-user usage summary shown in the admin panel.
type Stats struct {
	Conversation int        `json:"conversation"`
	Tags         []TagCount `json:"tags"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp accepts the handful of layouts the backend has emitted for created_at.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "[Timestamp] expected string")
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}
