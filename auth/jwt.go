package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"set-game-server/sessionerrors"
)

// Validator checks bearer tokens against one issuer's keys.
type Validator struct {
	issuer  string
	keyfunc jwt.Keyfunc
	methods []string
}

// NewValidator fetches the JWKS published under baseURL and keeps it
// refreshed in the background. The expected issuer is baseURL's origin.
func NewValidator(baseURL string) (*Validator, error) {
	if baseURL == "" {
		return nil, errors.New("AUTH_BASE_URL is not set")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jwksURL := strings.TrimSuffix(baseURL, "/") + "/.well-known/jwks.json"
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load JWKS: %w", err)
	}
	return NewStaticValidator(u.Scheme+"://"+u.Host, jwks.Keyfunc), nil
}

// NewStaticValidator returns a Validator that resolves keys with kf.
func NewStaticValidator(issuer string, kf jwt.Keyfunc) *Validator {
	return &Validator{issuer: issuer, keyfunc: kf, methods: []string{"EdDSA"}}
}

// Validate parses the token and returns its claims. Every failure wraps
// sessionerrors.ErrUnauthorized.
func (v *Validator) Validate(tokenString string) (jwt.MapClaims, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: auth not configured", sessionerrors.ErrUnauthorized)
	}
	token, err := jwt.Parse(tokenString, v.keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods(v.methods))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sessionerrors.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", sessionerrors.ErrUnauthorized)
	}
	return claims, nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Player"
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
