package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/landinvestpro/marketplace-gateway/internal/api/middleware"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors.
// RedirectTo is set only for session expiry, pointing the frontend at the
// login surface.
type errorResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the session error taxonomy to deterministic HTTP status codes.
//   - Expires the session cookie when a session-expired error surfaces.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if errors.Is(err, domain.ErrSessionExpired) {
			c.SetCookie(middleware.ExpiredSessionCookie())
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Session taxonomy → deterministic HTTP codes. Credential-entry errors
	// keep their specific messages so the login form can render them inline.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "no account found for this email"}
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, errorResponse{Error: "selected role does not match account roles"}
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, errorResponse{Error: "account already exists"}
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, errorResponse{
			Error:      "session expired",
			RedirectTo: middleware.LoginPath,
		}
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: "access denied"}
	case errors.Is(err, domain.ErrAuthFailure):
		return http.StatusBadGateway, errorResponse{Error: "authentication failed"}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, errorResponse{Error: "marketplace backend unavailable"}
	}

	// Upstream statuses the gateway merely relays (e.g. 422 from a profile
	// update) pass through with the backend's message.
	var ue *ports.UpstreamError
	if errors.As(err, &ue) {
		if ue.Status >= 400 && ue.Status < 500 {
			return ue.Status, errorResponse{Error: ue.Body}
		}
		return http.StatusBadGateway, errorResponse{Error: "marketplace backend error"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
