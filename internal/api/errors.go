package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"lexflow/backend/internal/dialogue"
	"lexflow/backend/internal/logging"
	"lexflow/backend/internal/services"
)

// toHTTPError maps service errors onto HTTP status codes. Anything not
// recognised is a 500 whose detail is not exposed.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "workflow not found").SetInternal(err)
	case errors.Is(err, services.ErrUnknownTemplate):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	case errors.Is(err, services.ErrNoDocument),
		errors.Is(err, services.ErrNotReady),
		errors.Is(err, dialogue.ErrNoFields):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}

// problemText returns the user-facing reason of a dialogue problem.
func problemText(err error) string {
	var verr *dialogue.ValidationError
	if errors.As(err, &verr) {
		return dialogue.ReasonText(verr.Reason)
	}
	return dialogue.ReasonText(err)
}

// ProblemErrorHandler renders every echo error as RFC 7807 problem JSON and
// logs server-side failures.
func ProblemErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			detail = fmt.Sprint(he.Message)
		}

		if code >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", code,
				"error", err,
			)
		}
		writeError(c.Response(), code, http.StatusText(code), detail, c.Request().URL.Path)
	}
}
