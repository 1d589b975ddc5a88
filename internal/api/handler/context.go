package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/api/middleware"
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

// ctxSession extracts the session hydrated by the Session middleware and
// fast-fails before any service call. Handlers behind a guard should never
// see a nil session; the check proves the middleware chain ran.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
