package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storyhub/pkg/middleware"
	"storyhub/pkg/translation/controller"
	"storyhub/pkg/translation/service"
)

type translationCtrl struct{ svc service.TranslationService }

func New(svc service.TranslationService) controller.TranslationController {
	return &translationCtrl{svc: svc}
}

func idParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err == nil && id > 0
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

type putReq struct {
	Text        *string `json:"text"`
	IsFinalized *bool   `json:"is_finalized"`
}

func (h *translationCtrl) Get(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	view, err := h.svc.Editor(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *translationCtrl) Put(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var req putReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	res, err := h.svc.Record(c.Request().Context(), service.RecordInput{
		ParagraphID: id,
		Text:        req.Text,
		IsFinalized: req.IsFinalized,
	}, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	status := http.StatusOK
	if res.Created() {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

func (h *translationCtrl) Delete(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	story, err := h.svc.Delete(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"translated_count": story.TranslatedCount,
		"paragraphs_count": story.ParagraphsCount,
	})
}

func (h *translationCtrl) SelectIllustration(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var req struct {
		IsSelected *bool `json:"is_selected"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	if req.IsSelected == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_selected is required"})
	}
	ill, err := h.svc.SelectIllustration(c.Request().Context(), id, *req.IsSelected, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ill)
}

func (h *translationCtrl) AddNote(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	note, err := h.svc.AddNote(c.Request().Context(), id, req.Text, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *translationCtrl) ListNotes(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	notes, err := h.svc.ListNotes(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *translationCtrl) UpdateNote(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var req struct {
		Text     *string `json:"text"`
		Resolved *bool   `json:"resolved"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json: " + err.Error()})
	}
	note, err := h.svc.UpdateNote(c.Request().Context(), id, service.NotePatch{Text: req.Text, Resolved: req.Resolved}, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}
