package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/config"
	"storyhub/entities"
	"storyhub/pkg/auth"
	"storyhub/pkg/middleware"
	"storyhub/pkg/splitter"
	"storyhub/pkg/testsupport"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func (c client) do(actor auth.Actor, method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor.Authenticated() {
		req.Header.Set(middleware.HeaderUserID, fmt.Sprint(actor.UserID))
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestStoryLifecycle(t *testing.T) {
	db := testsupport.OpenDB(t)
	log := testsupport.Logger(t)
	cfg := config.AppConfig{PlaceholderURL: splitter.DefaultPlaceholderURL}
	c := client{t: t, e: newServer(cfg, db, log)}

	admin := testsupport.MustCreateUser(t, db, "admin", entities.RoleAdmin)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)
	bob := testsupport.MustCreateUser(t, db, "bob", entities.RoleTranslator)
	anon := auth.Actor{}

	// import
	rec := c.do(admin, http.MethodPost, "/stories/import",
		`{"title":"The Fox","original_language":"en","target_language":"ru","original_text":"One.\n\nTwo.","machine_text":"Раз."}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imported := decode[struct {
		Story          entities.Story `json:"story"`
		ParagraphCount int            `json:"paragraph_count"`
		ChapterCount   int            `json:"chapter_count"`
	}](t, rec)
	assert.Equal(t, 2, imported.ParagraphCount)
	assert.Equal(t, 1, imported.ChapterCount)
	id := imported.Story.StoryID
	storyPath := fmt.Sprintf("/stories/%d", id)

	assert.Equal(t, http.StatusForbidden, c.do(alice, http.MethodPost, "/stories/import", `{"title":"x","original_language":"en","target_language":"ru"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(anon, http.MethodPost, storyPath+"/claim", "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(anon, http.MethodGet, storyPath, "").Code)

	// available → claim
	avail := decode[[]entities.Story](t, c.do(alice, http.MethodGet, "/stories?scope=available", ""))
	require.Len(t, avail, 1)

	rec = c.do(alice, http.MethodPost, storyPath+"/claim", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, c.do(alice, http.MethodPost, storyPath+"/claim", "").Code)
	rec = c.do(bob, http.MethodPost, storyPath+"/claim", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"already_assigned"`)

	// translate
	paras := testsupport.MustParagraphs(t, db, id)
	require.Len(t, paras, 2)
	editor := decode[struct {
		Text string `json:"text"`
	}](t, c.do(alice, http.MethodGet, fmt.Sprintf("/paragraphs/%d/translation", paras[0].ParagraphID), ""))
	assert.Equal(t, "Раз.", editor.Text)

	rec = c.do(alice, http.MethodPut, fmt.Sprintf("/paragraphs/%d/translation", paras[0].ParagraphID), `{"text":"Раз.","is_finalized":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, c.do(bob, http.MethodPut, fmt.Sprintf("/paragraphs/%d/translation", paras[1].ParagraphID), `{"text":"x"}`).Code)

	rec = c.do(alice, http.MethodPost, storyPath+"/complete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 of 2")

	rec = c.do(alice, http.MethodPut, fmt.Sprintf("/paragraphs/%d/translation", paras[1].ParagraphID), `{"text":"Два.","is_finalized":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	progress := decode[struct {
		TranslatedCount int `json:"translated_count"`
	}](t, rec)
	assert.Equal(t, 2, progress.TranslatedCount)

	// illustrations + notes
	ills := decode[[]struct {
		Illustrations []entities.Illustration `json:"illustrations"`
	}](t, c.do(alice, http.MethodGet, storyPath+"/paragraphs", ""))
	require.Len(t, ills[0].Illustrations, entities.IllustrationSlots)
	rec = c.do(alice, http.MethodPatch, fmt.Sprintf("/illustrations/%d", ills[0].Illustrations[2].IllustrationID), `{"is_selected":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = c.do(alice, http.MethodPost, fmt.Sprintf("/paragraphs/%d/notes", paras[0].ParagraphID), `{"text":"check tone"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// complete → publish
	assert.Equal(t, http.StatusForbidden, c.do(alice, http.MethodPost, storyPath+"/publish", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do(admin, http.MethodPost, storyPath+"/publish", "").Code)
	require.Equal(t, http.StatusOK, c.do(alice, http.MethodPost, storyPath+"/complete", "").Code)

	rec = c.do(admin, http.MethodPost, storyPath+"/publish", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	published := decode[entities.Story](t, rec)
	assert.Equal(t, entities.StoryPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	again := decode[entities.Story](t, c.do(admin, http.MethodPost, storyPath+"/publish", ""))
	assert.True(t, published.PublishedAt.Equal(*again.PublishedAt))

	// readers
	public := decode[[]entities.Story](t, c.do(anon, http.MethodGet, "/stories", ""))
	require.Len(t, public, 1)
	assert.Equal(t, "the-fox", public[0].Slug)
	assert.Equal(t, http.StatusOK, c.do(anon, http.MethodGet, "/stories/slug/the-fox", "").Code)
	read := decode[[]struct {
		Translation string `json:"translation"`
	}](t, c.do(anon, http.MethodGet, storyPath+"/paragraphs", ""))
	require.Len(t, read, 2)
	assert.Equal(t, "Два.", read[1].Translation)

	done := decode[[]entities.Story](t, c.do(alice, http.MethodGet, "/stories?scope=completed", ""))
	assert.Len(t, done, 1)

	rec = c.do(admin, http.MethodGet, storyPath+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "story-")

	health := c.do(anon, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.NotEmpty(t, health.Header().Get(echo.HeaderXRequestID))
}

func TestBadIDs(t *testing.T) {
	db := testsupport.OpenDB(t)
	c := client{t: t, e: newServer(config.AppConfig{}, db, testsupport.Logger(t))}
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)

	assert.Equal(t, http.StatusBadRequest, c.do(alice, http.MethodPost, "/stories/abc/claim", "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(alice, http.MethodPost, "/stories/42/claim", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do(alice, http.MethodPut, "/paragraphs/0/translation", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(alice, http.MethodGet, "/stories?scope=nope", "").Code)
}
