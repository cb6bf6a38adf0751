package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CtxKey is where RequestLogger stores the per-request entry.
const CtxKey = "logger"

// ActorIDFunc reports the caller's user id for the log line (0 = anonymous).
type ActorIDFunc func(c echo.Context) uint

// RequestLogger logs one line per request, tagged with the request id set by
// echo's RequestID middleware.
func RequestLogger(log logrus.FieldLogger, actorID ActorIDFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			entry := log.WithField("request_id", rid)
			c.Set(CtxKey, entry)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"uri":        c.Request().RequestURI,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if actorID != nil {
				if uid := actorID(c); uid != 0 {
					fields["actor_id"] = uid
				}
			}
			e := entry.WithFields(fields)
			switch {
			case c.Response().Status >= 500:
				e.WithError(err).Error("request failed")
			case c.Response().Status >= 400:
				e.Warn("request rejected")
			default:
				e.Info("request")
			}
			return nil
		}
	}
}

// From returns the request's log entry, or fallback outside RequestLogger.
func From(c echo.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if e, ok := c.Get(CtxKey).(logrus.FieldLogger); ok {
		return e
	}
	return fallback
}
