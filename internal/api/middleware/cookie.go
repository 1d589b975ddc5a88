package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the browser cookie carrying the signed session JWT.
const SessionCookieName = "marketplace_session"

// SignSessionCookie builds the session cookie: an HS256 JWT whose only
// claims are the session ID and expiry. The upstream bearer token never
// reaches the browser.
func SignSessionCookie(secret, sessionID string, expires time.Time) (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ExpiredSessionCookie returns a cookie that removes the session cookie.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// parseSessionCookie verifies the cookie JWT and extracts the session ID.
func parseSessionCookie(secret, value string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("session cookie missing sid")
	}
	return sid, nil
}
