package users_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    users.Role
		wantErr bool
	}{
		{in: "", want: users.RoleNone},
		{in: "admin", want: users.RoleAdmin},
		{in: "admins", want: users.RoleAdmin},
		{in: " User ", want: users.RoleUser},
		{in: "users", want: users.RoleUser},
		{in: "root", want: users.RoleNone, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := users.ParseRole(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, users.ErrInvalidRole)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRoleCollection(t *testing.T) {
	require.Equal(t, "admins", users.RoleAdmin.Collection())
	require.Equal(t, "users", users.RoleUser.Collection())
	require.Equal(t, "", users.RoleNone.Collection())
	require.True(t, users.RoleAdmin.Valid())
	require.False(t, users.RoleNone.Valid())
}

func TestProfileDecodesCreatedAtLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-03-01T08:30:00Z",
		"2024-03-01T08:30:00.123456",
		"2024-03-01 08:30:00",
	} {
		var p users.Profile
		body := `{"username":"amy","email":"amy@example.com","created_at":"` + raw + `"}`
		require.NoError(t, json.Unmarshal([]byte(body), &p), raw)
		require.Equal(t, "amy", p.Username)
		require.Equal(t, 2024, p.CreatedAt.Year())
		require.Equal(t, time.March, p.CreatedAt.Month())
	}

	var p users.Profile
	require.Error(t, json.Unmarshal([]byte(`{"created_at":"yesterday"}`), &p))
}

func TestStatsDecodesTagPairs(t *testing.T) {
	var s users.Stats
	require.NoError(t, json.Unmarshal([]byte(`{"conversation":12,"tags":[["algebra",7],["geometry",5]]}`), &s))
	require.Equal(t, 12, s.Conversation)
	require.Equal(t, []users.TagCount{{Tag: "algebra", Count: 7}, {Tag: "geometry", Count: 5}}, s.Tags)

	require.Error(t, json.Unmarshal([]byte(`{"tags":[["algebra"]]}`), &s))
}

func TestValidateForms(t *testing.T) {
	require.NoError(t, users.Validate(users.LoginForm{Username: "amy", Password: "secret1"}))

	err := users.Validate(users.LoginForm{Username: "a", Password: "123"})
	require.True(t, errors.Is(err, users.ErrInvalidForm))
	require.Contains(t, err.Error(), "username must be at least 2 characters")
	require.Contains(t, err.Error(), "password must be at least 6 characters")

	err = users.Validate(users.RegisterForm{
		Username:        "amy",
		Email:           "not-an-email",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "email must be a valid email")
	require.Contains(t, err.Error(), "confirm_password does not match")

	require.NoError(t, users.Validate(users.ModifyPasswordForm{
		CurrentPassword: "secret1",
		NewPassword:     "secret22",
		ConfirmPassword: "secret22",
	}))
	require.Error(t, users.Validate(users.ActivationForm{Username: "amy"}))
}
