package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"storyhub/pkg/apperr"
	"storyhub/pkg/logger"
)

// ErrorHandler renders apperr kinds as {"error", "kind"} with the mapped status.
// Internal failures are logged and answered with a generic message.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := he.Message
			if s, ok := msg.(string); ok {
				msg = echo.Map{"error": s}
			}
			_ = c.JSON(he.Code, msg)
			return
		}

		status := apperr.HTTPStatus(err)
		body := echo.Map{"error": err.Error(), "kind": apperr.KindOf(err)}
		if status == http.StatusInternalServerError {
			logger.From(c, log).WithError(err).Error("internal error")
			body["error"] = "internal error"
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
