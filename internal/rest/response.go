package rest

import (
	"agriVest/domain"
	"agriVest/internal/middleware"
	"agriVest/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(middleware.HTTPStatus(err), ResponseError{Message: middleware.PublicMessage(err)})
}

func unauthorized(c echo.Context) error {
	logger.Error("Failed to get user from context")
	return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseOptionalBool reads a boolean query parameter; absent means nil.
func parseOptionalBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
