package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storyhub/config"
	"storyhub/database"
	"storyhub/pkg/htmltext"
	"storyhub/pkg/logger"
	"storyhub/pkg/middleware"
	"storyhub/pkg/mt"
	"storyhub/pkg/progress"
	"storyhub/router"

	// Auth
	authCtrlImp "storyhub/pkg/auth/controllerImp"

	// Health
	healthCtrlImp "storyhub/pkg/health/controllerImp"

	// Stories
	storyCtrlImp "storyhub/pkg/story/controllerImp"
	storyRepoImp "storyhub/pkg/story/repositoryImp"
	storySvcImp "storyhub/pkg/story/serviceImp"

	// Workflow
	workflowCtrlImp "storyhub/pkg/workflow/controllerImp"
	workflowSvcImp "storyhub/pkg/workflow/serviceImp"

	// Translations
	translationCtrlImp "storyhub/pkg/translation/controllerImp"
	translationSvcImp "storyhub/pkg/translation/serviceImp"

	// Users
	userRepoImp "storyhub/pkg/user/repositoryImp"
)

func main() {
	// 1) Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	// 2) Logger
	log, closer, err := logger.New("app", cfg.Log())
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	defer closer.Close()

	// 3) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// 4) Echo
	e := newServer(cfg, db, log)

	// 5) Start, stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("stopped")
}

// newServer builds the echo instance with every route registered.
func newServer(cfg config.AppConfig, db *gorm.DB, log *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logger.RequestLogger(log, middleware.ActorID))

	// machine translation (noop fallback)
	var client mt.Client = mt.NewNoop()
	if cfg.MTEnabled() {
		client = mt.NewOpenAI(cfg.MTEndpoint, cfg.MTAPIKey, cfg.MTModel)
	}

	// repos + services
	users := userRepoImp.New(db)
	stories := storyRepoImp.New(db)
	tracker := progress.NewTracker(log)

	storySvc := storySvcImp.NewStoryService(stories, users, log,
		storySvcImp.WithPlaceholderURL(cfg.PlaceholderURL),
		storySvcImp.WithMachineTranslation(client),
		storySvcImp.WithMachineTranslationBudget(cfg.MTBudget),
	)
	workflowSvc := workflowSvcImp.NewWorkflowService(stories, tracker, log)
	translationSvc := translationSvcImp.NewTranslationService(stories, tracker, log)

	var fetcher *htmltext.Fetcher
	if len(cfg.ImportAllowedDomains) > 0 {
		fetcher = htmltext.NewFetcher(cfg.ImportAllowedDomains, cfg.ImportMaxBytes)
	}

	// router
	return router.New(e, users, cfg.DevLogin, router.Controllers{
		Auth:        authCtrlImp.NewAuthController(users, cfg.DevLogin),
		Health:      healthCtrlImp.NewHealthCtrl(db),
		Story:       storyCtrlImp.New(storySvc, fetcher),
		Workflow:    workflowCtrlImp.New(workflowSvc),
		Translation: translationCtrlImp.New(translationSvc),
	})
}
