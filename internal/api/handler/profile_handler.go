package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// ProfileHandler relays profile reads and writes to the backend, keeping
// the cached user record in step with successful updates.
type ProfileHandler struct {
	backend  ports.BackendClient
	sessions ports.SessionManager
}

func NewProfileHandler(backend ports.BackendClient, sessions ports.SessionManager) *ProfileHandler {
	return &ProfileHandler{backend: backend, sessions: sessions}
}

// Get reads the current profile from the backend.
//
// @Summary      Get profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	user, err := h.backend.GetProfile(c.Request().Context(), sess.ID, sess.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update writes profile fields upstream, then merges them into the cached
// user so later requests in this session see the new values. Roles are not
// updatable here.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      profileUpdateRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /users/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.backend.UpdateProfile(c.Request().Context(), sess.ID, sess.Token, ports.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return err
	}

	user, err := h.sessions.UpdateUser(c.Request().Context(), sess.ID, ports.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
