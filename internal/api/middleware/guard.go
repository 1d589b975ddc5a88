// Package middleware holds the session hydration middleware and the route
// guards. Hydration always runs before any guard, so a guard never decides
// on a request whose session state is still unresolved.
package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/pkg/metrics"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

const sessionContextKey = "session"

// LoginPath is where unauthenticated requests for protected routes land.
// The originally requested path travels along in the from query parameter.
const LoginPath = "/login"

// DefaultLandingPath is where authenticated users are sent away from
// public-only pages when no origin is recorded.
const DefaultLandingPath = "/dashboard"

// Session resolves the session cookie against the manager and stores the
// result in the request context. Requests without a valid cookie or cached
// credentials continue anonymously; only a store failure aborts.
func Session(mgr ports.SessionManager, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				metrics.SessionHydrationsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			sid, err := parseSessionCookie(secret, cookie.Value)
			if err != nil {
				c.SetCookie(ExpiredSessionCookie())
				metrics.SessionHydrationsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			sess, err := mgr.Hydrate(c.Request().Context(), sid)
			if errors.Is(err, domain.ErrSessionNotFound) {
				c.SetCookie(ExpiredSessionCookie())
				metrics.SessionHydrationsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}
			if err != nil {
				metrics.SessionHydrationsTotal.WithLabelValues("error").Inc()
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}

			metrics.SessionHydrationsTotal.WithLabelValues("authenticated").Inc()
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// CurrentSession returns the hydrated session, or nil for anonymous
// requests. Valid only after the Session middleware has run.
func CurrentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionContextKey).(*domain.Session)
	return sess
}

// accessDenied is the terminal response body for a failed role check. It is
// a rendered state, not a redirect: the user should understand why access
// failed and have a way back.
type accessDenied struct {
	Error         string        `json:"error"`
	Message       string        `json:"message"`
	RequiredRoles []domain.Role `json:"required_roles,omitempty"`
	BackTo        string        `json:"back_to"`
}

// Authenticated gates a route behind authentication and, when required
// roles are given, role membership. An empty required list means any
// authenticated user; that is distinct from a public route.
func Authenticated(required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			if sess == nil {
				metrics.AccessDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusFound, loginRedirect(c.Request().URL))
			}
			if !sess.HasAnyRole(required...) {
				metrics.AccessDecisionsTotal.WithLabelValues("deny").Inc()
				return c.JSON(http.StatusForbidden, accessDenied{
					Error:         "access_denied",
					Message:       "you don't have the required permissions to access this page",
					RequiredRoles: required,
					BackTo:        DefaultLandingPath,
				})
			}
			metrics.AccessDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}

// AdminOnly admits administrators.
func AdminOnly() echo.MiddlewareFunc {
	return Authenticated(domain.RoleAdministrator)
}

// OwnerOnly admits landowners (either tag) and administrators.
func OwnerOnly() echo.MiddlewareFunc {
	return Authenticated(domain.RoleOwner, domain.RoleLandowner)
}

// ReviewerOnly admits reviewers, governance leads, and administrators.
func ReviewerOnly() echo.MiddlewareFunc {
	return Authenticated(domain.RoleReviewer, domain.RoleGovernanceLead)
}

// PublicOnly inverts the check for login and registration surfaces: an
// already-authenticated user is sent back to where they came from, or to
// the default landing page.
func PublicOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) != nil {
				metrics.AccessDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusFound, safeLocalPath(c.QueryParam("from")))
			}
			return next(c)
		}
	}
}

func loginRedirect(u *url.URL) string {
	from := u.Path
	if u.RawQuery != "" {
		from += "?" + u.RawQuery
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// safeLocalPath accepts only same-origin paths as redirect targets.
func safeLocalPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return DefaultLandingPath
	}
	return from
}
