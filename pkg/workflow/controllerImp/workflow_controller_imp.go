package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storyhub/pkg/middleware"
	"storyhub/pkg/workflow/controller"
	"storyhub/pkg/workflow/service"
)

type workflowCtrl struct{ svc service.WorkflowService }

func New(svc service.WorkflowService) controller.WorkflowController { return &workflowCtrl{svc: svc} }

func storyID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err == nil && id > 0
}

func (h *workflowCtrl) Claim(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	res, err := h.svc.Claim(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	status := http.StatusOK
	if !res.Noop {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

func (h *workflowCtrl) Complete(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	story, err := h.svc.Complete(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (h *workflowCtrl) Publish(c echo.Context) error {
	id, ok := storyID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid story id"})
	}
	story, err := h.svc.Publish(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}
