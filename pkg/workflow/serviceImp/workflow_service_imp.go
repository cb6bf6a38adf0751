package serviceImp

import (
	"time"

	"github.com/sirupsen/logrus"

	"storyhub/pkg/progress"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/workflow/service"
)

type workflowSvc struct {
	repo    repository.StoryRepository
	tracker *progress.Tracker
	now     func() time.Time
	log     logrus.FieldLogger
}

type Option func(*workflowSvc)

// WithClock replaces time.Now for accepted/completed/published timestamps.
func WithClock(now func() time.Time) Option { return func(s *workflowSvc) { s.now = now } }

func NewWorkflowService(repo repository.StoryRepository, tracker *progress.Tracker, log logrus.FieldLogger, opts ...Option) service.WorkflowService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &workflowSvc{
		repo:    repo,
		tracker: tracker,
		now:     func() time.Time { return time.Now().UTC() },
		log:     log.WithField("component", "workflow"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.tracker == nil {
		s.tracker = progress.NewTracker(log)
	}
	return s
}

func (s *workflowSvc) transition(storyID, actorID uint, from, to any) {
	s.log.WithFields(logrus.Fields{
		"story_id": storyID,
		"actor_id": actorID,
		"from":     from,
		"to":       to,
	}).Info("story transition")
}
