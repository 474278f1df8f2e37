package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-tutor-portal/token/jwt"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestIntrospectReadsClaims(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	jwt.NowTimeFunc = func() time.Time { return now }
	defer func() { jwt.NowTimeFunc = time.Now }()

	raw := signed(t, jwtlib.MapClaims{
		"sub":   "amy",
		"iss":   "tutor-backend",
		"iat":   now.Add(-time.Hour).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"roles": []string{"user"},
	})

	ti, err := jwt.Introspect(raw)
	require.NoError(t, err)
	require.True(t, ti.Active)
	require.Equal(t, "amy", ti.Subject)
	require.Equal(t, "tutor-backend", ti.Issuer)
	require.Equal(t, []string{"user"}, ti.Roles)
	require.NotNil(t, ti.ExpiresAt)
	require.Equal(t, now.Add(time.Hour).Unix(), ti.ExpiresAt.Unix())
	require.NotNil(t, ti.IssuedAt)
}

func TestIntrospectExpiredToken(t *testing.T) {
	raw := signed(t, jwtlib.MapClaims{
		"sub":  "amy",
		"exp":  time.Now().Add(-time.Minute).Unix(),
		"role": "admin",
	})

	ti, err := jwt.Introspect(raw)
	require.NoError(t, err)
	require.False(t, ti.Active)
	require.Equal(t, []string{"admin"}, ti.Roles)
}

func TestIntrospectOpaqueToken(t *testing.T) {
	ti, err := jwt.Introspect("tok-A")
	require.ErrorIs(t, err, jwt.ErrNotJWT)
	require.False(t, ti.Active)

	_, err = jwt.Introspect("a.b.c")
	require.Error(t, err)
}
