package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storyhub/pkg/htmltext"
	"storyhub/pkg/middleware"
	"storyhub/pkg/story/controller"
	"storyhub/pkg/story/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type storyCtrl struct {
	svc     service.StoryService
	fetcher *htmltext.Fetcher
}

// New wires the story endpoints; fetcher may be nil to disable URL imports.
func New(svc service.StoryService, fetcher *htmltext.Fetcher) controller.StoryController {
	return &storyCtrl{svc: svc, fetcher: fetcher}
}

type importReq struct {
	service.CreateInput
	service.ContentInput
	SourceURL string `json:"source_url"`
}

func storyID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err == nil && id > 0
}

func (h *storyCtrl) Create(c echo.Context) error {
	var req service.CreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	story, err := h.svc.Create(c.Request().Context(), req, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, story)
}

// Import creates a story from text, HTML, chapters or an allowed URL.
func (h *storyCtrl) Import(c echo.Context) error {
	var req importReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	if u := strings.TrimSpace(req.SourceURL); u != "" {
		if !middleware.ActorFrom(c).IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "importing stories requires the admin role"})
		}
		if h.fetcher == nil || !h.fetcher.Allowed(u) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "source_url host is not allowed"})
		}
		if req.OriginalText != "" || req.OriginalHTML != "" || len(req.Chapters) > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "send either source_url or content, not both"})
		}
		title, text, err := h.fetcher.Fetch(c.Request().Context(), u)
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "fetch failed: " + err.Error()})
		}
		if strings.TrimSpace(req.Title) == "" {
			req.Title = title
		}
		req.OriginalText = text
	}
	res, err := h.svc.Import(c.Request().Context(), req.CreateInput, req.ContentInput, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *storyCtrl) Parse(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	var req service.ContentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	res, err := h.svc.Parse(c.Request().Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *storyCtrl) List(c echo.Context) error {
	var q service.ListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	stories, err := h.svc.List(c.Request().Context(), q, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

func (h *storyCtrl) Get(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	story, err := h.svc.Get(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (h *storyCtrl) GetBySlug(c echo.Context) error {
	story, err := h.svc.GetBySlug(c.Request().Context(), c.Param("slug"), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (h *storyCtrl) Preview(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ps, err := h.svc.Preview(c.Request().Context(), id, limit, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *storyCtrl) Paragraphs(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	views, err := h.svc.Paragraphs(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (h *storyCtrl) Export(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request().Context(), id, &buf, middleware.ActorFrom(c)); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="story-%d.xlsx"`, id))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
