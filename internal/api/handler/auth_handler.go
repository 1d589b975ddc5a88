package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/api/middleware"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// AuthHandler serves the login, registration, and session endpoints.
type AuthHandler struct {
	sessions     ports.SessionManager
	cookieSecret string
}

func NewAuthHandler(sessions ports.SessionManager, cookieSecret string) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookieSecret: cookieSecret}
}

// Login authenticates against the marketplace backend and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.sessions.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	cookie, err := middleware.SignSessionCookie(h.cookieSecret, sess.ID, sess.ExpiresAt)
	if err != nil {
		// The session is persisted but unusable without a cookie; drop it.
		_ = h.sessions.Logout(c.Request().Context(), sess.ID)
		return err
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, authResponse{
		User:      &sess.User,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Register creates a new marketplace account. No session is established.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	roles := make([]domain.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, domain.Role(r))
	}

	user, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     roles,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Logout clears the session and expires the cookie. Idempotent: logging out
// without a session still returns 204.
//
// @Summary      Logout
// @Tags         auth
// @Success      204  "session cleared"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := h.sessions.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	c.SetCookie(middleware.ExpiredSessionCookie())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current session's cached user record.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		User:      &sess.User,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
