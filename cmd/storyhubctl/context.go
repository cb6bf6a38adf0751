package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storyhub/config"
	"storyhub/database"
	"storyhub/pkg/auth"
	"storyhub/pkg/mt"
	"storyhub/pkg/progress"
	"storyhub/pkg/story/service"
	storyRepoImp "storyhub/pkg/story/repositoryImp"
	storySvcImp "storyhub/pkg/story/serviceImp"
	userRepo "storyhub/pkg/user/repository"
	userRepoImp "storyhub/pkg/user/repositoryImp"
	workflowService "storyhub/pkg/workflow/service"
	workflowSvcImp "storyhub/pkg/workflow/serviceImp"
)

type commandContext struct {
	dbFlag *string
	asFlag *string

	openOnce sync.Once
	cfg      config.AppConfig
	db       *gorm.DB
	log      *logrus.Logger
	openErr  error
}

func newCommandContext(dbFlag, asFlag *string) *commandContext {
	return &commandContext{dbFlag: dbFlag, asFlag: asFlag}
}

// open loads the config and the migrated database once per invocation.
func (c *commandContext) open() (*gorm.DB, error) {
	c.openOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.openErr = err
			return
		}
		if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
			cfg.DBPath = strings.TrimSpace(*c.dbFlag)
		}
		c.cfg = cfg

		log := logrus.New()
		log.SetOutput(os.Stderr)
		// quiet unless asked for debug output
		log.SetLevel(logrus.WarnLevel)
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil && lvl >= logrus.DebugLevel {
			log.SetLevel(lvl)
		}
		c.log = log

		db, err := database.OpenSQLite(cfg.DBPath, log)
		if err != nil {
			c.openErr = err
			return
		}
		c.db = db
	})
	return c.db, c.openErr
}

func (c *commandContext) close() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}

func (c *commandContext) users() (userRepo.UserRepository, error) {
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	return userRepoImp.New(db), nil
}

// actor resolves --as to a stored user.
func (c *commandContext) actor(ctx context.Context) (auth.Actor, error) {
	name := ""
	if c.asFlag != nil {
		name = strings.TrimSpace(*c.asFlag)
	}
	if name == "" {
		return auth.Actor{}, errors.New("--as <username> is required")
	}
	users, err := c.users()
	if err != nil {
		return auth.Actor{}, err
	}
	u, err := users.FindByUsername(ctx, name)
	if err != nil {
		return auth.Actor{}, fmt.Errorf("resolve --as %q: %w", name, err)
	}
	return auth.FromUser(u), nil
}

func (c *commandContext) storyService() (service.StoryService, error) {
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	var client mt.Client = mt.NewNoop()
	if c.cfg.MTEnabled() {
		client = mt.NewOpenAI(c.cfg.MTEndpoint, c.cfg.MTAPIKey, c.cfg.MTModel)
	}
	return storySvcImp.NewStoryService(storyRepoImp.New(db), userRepoImp.New(db), c.log,
		storySvcImp.WithPlaceholderURL(c.cfg.PlaceholderURL),
		storySvcImp.WithMachineTranslation(client),
		storySvcImp.WithMachineTranslationBudget(c.cfg.MTBudget),
	), nil
}

func (c *commandContext) workflowService() (workflowService.WorkflowService, error) {
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	return workflowSvcImp.NewWorkflowService(storyRepoImp.New(db), progress.NewTracker(c.log), c.log), nil
}
