package router

import (
	"github.com/labstack/echo/v4"

	authCtrl "storyhub/pkg/auth/controller"
	healthCtrl "storyhub/pkg/health/controller"
	"storyhub/pkg/middleware"
	storyCtrl "storyhub/pkg/story/controller"
	translationCtrl "storyhub/pkg/translation/controller"
	userRepo "storyhub/pkg/user/repository"
	workflowCtrl "storyhub/pkg/workflow/controller"
)

type Controllers struct {
	Auth        authCtrl.AuthController
	Health      healthCtrl.HealthController
	Story       storyCtrl.StoryController
	Workflow    workflowCtrl.WorkflowController
	Translation translationCtrl.TranslationController
}

func New(e *echo.Echo, users userRepo.UserRepository, devLogin bool, h Controllers) *echo.Echo {
	e.GET("/health", h.Health.Health)

	api := e.Group("", middleware.Actor(users, devLogin))
	api.GET("/whoami", h.Auth.WhoAmI)
	api.GET("/devlogin", h.Auth.DevLogin)
	api.POST("/devlogout", h.Auth.DevLogout)

	// readers may browse published stories anonymously
	api.GET("/stories", h.Story.List)
	api.GET("/stories/:id", h.Story.Get)
	api.GET("/stories/slug/:slug", h.Story.GetBySlug)
	api.GET("/stories/:id/paragraphs", h.Story.Paragraphs)

	auth := api.Group("", middleware.RequireAuth())
	auth.POST("/stories", h.Story.Create)
	auth.POST("/stories/import", h.Story.Import)
	auth.POST("/stories/:id/parse", h.Story.Parse)
	auth.GET("/stories/:id/preview", h.Story.Preview)
	auth.GET("/stories/:id/export", h.Story.Export)

	auth.POST("/stories/:id/claim", h.Workflow.Claim)
	auth.POST("/stories/:id/complete", h.Workflow.Complete)
	auth.POST("/stories/:id/publish", h.Workflow.Publish)

	auth.GET("/paragraphs/:id/translation", h.Translation.Get)
	auth.PUT("/paragraphs/:id/translation", h.Translation.Put)
	auth.DELETE("/paragraphs/:id/translation", h.Translation.Delete)
	auth.GET("/paragraphs/:id/notes", h.Translation.ListNotes)
	auth.POST("/paragraphs/:id/notes", h.Translation.AddNote)
	auth.PATCH("/notes/:id", h.Translation.UpdateNote)
	auth.PATCH("/illustrations/:id", h.Translation.SelectIllustration)
	return e
}
