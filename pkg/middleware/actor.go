package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	userRepo "storyhub/pkg/user/repository"
)

const (
	// HeaderUserID identifies the caller when the front proxy has authenticated it.
	HeaderUserID = "X-User-ID"
	// DevCookie carries the user id set by the dev login endpoint.
	DevCookie = "STORYHUB_UID"

	actorKey = "actor"
)

// Actor resolves the caller from the X-User-ID header (or the dev login cookie
// when devLogin is on) and stores it on the context. Requests without an
// identity continue as anonymous; an unknown identity is rejected.
func Actor(users userRepo.UserRepository, devLogin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if raw == "" && devLogin {
				if ck, err := c.Cookie(DevCookie); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				c.Set(actorKey, auth.Actor{})
				return next(c)
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid user id"})
			}
			u, err := users.FindByID(c.Request().Context(), uint(id))
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
				}
				return err
			}
			c.Set(actorKey, auth.FromUser(u))
			return next(c)
		}
	}
}

// RequireAuth answers 401 for anonymous callers.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).Authenticated() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			return next(c)
		}
	}
}

// ActorFrom returns the caller set by Actor, or the anonymous actor.
func ActorFrom(c echo.Context) auth.Actor {
	a, _ := c.Get(actorKey).(auth.Actor)
	return a
}

// ActorID is a logger.ActorIDFunc.
func ActorID(c echo.Context) uint { return ActorFrom(c).UserID }
