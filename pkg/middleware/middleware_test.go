package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/testsupport"
	userRepoImp "storyhub/pkg/user/repositoryImp"
)

func newEcho(t *testing.T, devLogin bool) (*echo.Echo, uint) {
	t.Helper()
	db := testsupport.OpenDB(t)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(testsupport.Logger(t))
	e.Use(Actor(userRepoImp.New(db), devLogin))
	e.GET("/me", func(c echo.Context) error { return c.JSON(http.StatusOK, ActorFrom(c)) })
	e.GET("/private", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireAuth())
	e.GET("/fail/:kind", func(c echo.Context) error {
		switch c.Param("kind") {
		case "assigned":
			return apperr.AlreadyAssigned(1)
		case "incomplete":
			return apperr.Incomplete(1, 1, 2)
		case "http":
			return echo.NewHTTPError(http.StatusTeapot, "tea")
		default:
			return fmt.Errorf("db exploded")
		}
	})
	return e, alice.UserID
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestActor_Header(t *testing.T) {
	e, uid := newEcho(t, false)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, fmt.Sprint(uid))
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":0`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, "999")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, "abc")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestActor_DevCookie(t *testing.T) {
	cookie := func(uid uint) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: DevCookie, Value: fmt.Sprint(uid)})
		return req
	}

	e, uid := newEcho(t, true)
	assert.Contains(t, serve(e, cookie(uid)).Body.String(), `"username":"alice"`)

	e, uid = newEcho(t, false)
	assert.Contains(t, serve(e, cookie(uid)).Body.String(), `"user_id":0`)
}

func TestRequireAuth(t *testing.T) {
	e, uid := newEcho(t, false)
	assert.Equal(t, http.StatusUnauthorized, serve(e, httptest.NewRequest(http.MethodGet, "/private", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(HeaderUserID, fmt.Sprint(uid))
	assert.Equal(t, http.StatusNoContent, serve(e, req).Code)
}

func TestErrorHandler(t *testing.T) {
	e, _ := newEcho(t, false)
	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/fail/assigned", http.StatusConflict, `"kind":"already_assigned"`},
		{"/fail/incomplete", http.StatusBadRequest, `1 of 2 paragraphs finalized`},
		{"/fail/http", http.StatusTeapot, `"error":"tea"`},
		{"/fail/other", http.StatusInternalServerError, `"error":"internal error"`},
		{"/nowhere", http.StatusNotFound, `"error":"Not Found"`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := serve(e, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}
