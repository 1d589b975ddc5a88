package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/core/policy"
	"github.com/landinvestpro/marketplace-gateway/internal/core/ports"
)

// ViewsHandler serves the role-gated content surfaces. Listings are relayed
// from the backend through the session client, so an upstream 401 on any of
// them flows into the forced-logout path.
type ViewsHandler struct {
	backend ports.BackendClient
}

func NewViewsHandler(backend ports.BackendClient) *ViewsHandler {
	return &ViewsHandler{backend: backend}
}

type listingResponse struct {
	Items json.RawMessage `json:"items"`
}

// Marketplace relays the land/PPA listing. Visible to every authenticated
// user; filters pass through as query parameters.
//
// @Summary      Marketplace listings
// @Tags         views
// @Produce      json
// @Success      200  {object}  listingResponse
// @Failure      401  {object}  map[string]string
// @Router       /marketplace [get]
func (h *ViewsHandler) Marketplace(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	items, err := h.backend.ListLands(c.Request().Context(), sess.ID, sess.Token, c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Items: items})
}

// Documents relays the document listing for the document-management surface.
//
// @Summary      Document listings
// @Tags         views
// @Produce      json
// @Success      200  {object}  listingResponse
// @Failure      401  {object}  map[string]string
// @Router       /document-management [get]
func (h *ViewsHandler) Documents(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	items, err := h.backend.ListDocuments(c.Request().Context(), sess.ID, sess.Token, c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Items: items})
}

type reviewQueueResponse struct {
	Items   json.RawMessage `json:"items"`
	Actions []policy.Action `json:"actions"`
}

// DocumentReview serves the reviewer surface: pending documents plus the
// review actions the current role set may perform.
//
// @Summary      Document review queue
// @Tags         views
// @Produce      json
// @Success      200  {object}  reviewQueueResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /document-review [get]
func (h *ViewsHandler) DocumentReview(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	query := c.QueryParams()
	query.Set("status", "pending_review")
	items, err := h.backend.ListDocuments(c.Request().Context(), sess.ID, sess.Token, query)
	if err != nil {
		return err
	}

	actions := make([]policy.Action, 0, 2)
	for _, a := range []policy.Action{policy.ActionReviewContent, policy.ActionApproveContent} {
		if policy.CanPerform(sess.User.Roles, a) {
			actions = append(actions, a)
		}
	}
	return c.JSON(http.StatusOK, reviewQueueResponse{Items: items, Actions: actions})
}

type projectViewResponse struct {
	Components []string        `json:"components"`
	CanCreate  bool            `json:"can_create"`
	Items      json.RawMessage `json:"items"`
}

// ProjectManagement serves the owner/admin project tracking surface.
//
// @Summary      Project management view
// @Tags         views
// @Produce      json
// @Success      200  {object}  projectViewResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /project-management [get]
func (h *ViewsHandler) ProjectManagement(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	query := c.QueryParams()
	query.Set("view", "projects")
	items, err := h.backend.ListLands(c.Request().Context(), sess.ID, sess.Token, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, projectViewResponse{
		Components: policy.DashboardComponents(sess.User.Roles),
		CanCreate:  policy.CanPerform(sess.User.Roles, policy.ActionCreateProjects),
		Items:      items,
	})
}

// AdminUsers relays the user listing for the admin management surface.
//
// @Summary      User management listing
// @Tags         admin
// @Produce      json
// @Success      200  {object}  listingResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *ViewsHandler) AdminUsers(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	items, err := h.backend.ListUsers(c.Request().Context(), sess.ID, sess.Token, c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Items: items})
}
