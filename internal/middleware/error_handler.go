package middleware

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// sentinels in match order
var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
}

// HTTPStatus maps a service error onto a response status. Unknown errors are
// 500.
func HTTPStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}

	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

// PublicMessage is the client facing text of err. The sentinel prefix of a
// "%w: detail" error is dropped, and 500s never leak internals.
func PublicMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}

	msg := err.Error()
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			if detail, ok := strings.CutPrefix(msg, s.err.Error()+": "); ok {
				return detail
			}
		}
	}

	return msg
}

// ErrorHandler renders errors returned by handlers and middleware as
// {"message": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled error", "path", c.Path(), err)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, map[string]string{"message": PublicMessage(err)})
	}
	if respErr != nil {
		logger.Error("Failed to write error response", respErr)
	}
}
