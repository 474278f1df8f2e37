package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-tutor-portal/internal/utils"
)

// NowTimeFunc is the clock used to decide whether a token has expired.
var NowTimeFunc = time.Now

// ErrNotJWT is returned for opaque tokens that carry no readable claims.
var ErrNotJWT = errors.New("token is not a JWT")

// TokenIntrospection is what can be read from a bearer token without its
// signing key. It is informational only: the client cannot verify the
// signature, and the profile endpoint remains the authority on validity.
type TokenIntrospection struct {
	Active    bool       // False once the exp claim has passed
	Subject   string     // sub
	Issuer    string     // iss
	Roles     []string   // roles, or a single role claim
	IssuedAt  *time.Time // iat
	ExpiresAt *time.Time // exp
}

// Introspect decodes the claims of rawToken without verifying it.
func Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.Count(strings.TrimSpace(rawToken), ".") != 2 {
		return &TokenIntrospection{Active: false}, ErrNotJWT
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return &TokenIntrospection{Active: false}, err
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims")
	}

	ti := &TokenIntrospection{Active: true}
	ti.Subject, _ = claims.GetSubject()
	ti.Issuer, _ = claims.GetIssuer()

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		ti.IssuedAt = utils.Ptr(iat.Time)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ti.ExpiresAt = utils.Ptr(exp.Time)
		if NowTimeFunc().After(exp.Time) {
			ti.Active = false
		}
	}

	ti.Roles = utils.ToStringSlice(claims["roles"])
	if len(ti.Roles) == 0 {
		ti.Roles = utils.ToStringSlice(claims["role"])
	}

	return ti, nil
}
