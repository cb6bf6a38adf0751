// Package progress keeps Story.TranslatedCount in step with translation writes.
package progress

import (
	"context"

	"github.com/sirupsen/logrus"

	"storyhub/entities"
	"storyhub/pkg/story/repository"
)

type Tracker struct {
	log logrus.FieldLogger
}

func NewTracker(log logrus.FieldLogger) *Tracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tracker{log: log}
}

// Count returns the number of distinct paragraphs with a finalized translation
// by the story's assigned translator; zero when nobody is assigned.
func (t *Tracker) Count(ctx context.Context, repo repository.StoryRepository, story *entities.Story) (int, error) {
	if story.AssignedTo == nil {
		return 0, nil
	}
	n, err := repo.CountFinalized(ctx, story.StoryID, *story.AssignedTo)
	if err != nil {
		return 0, err
	}
	return min(n, story.ParagraphsCount), nil
}

// Recompute refreshes story.TranslatedCount. It must run on the repository of
// the transaction that wrote the translation; the row is written only when the
// value changed.
func (t *Tracker) Recompute(ctx context.Context, repo repository.StoryRepository, story *entities.Story) (int, error) {
	n, err := t.Count(ctx, repo, story)
	if err != nil {
		return story.TranslatedCount, err
	}
	if n == story.TranslatedCount {
		return n, nil
	}
	if err := repo.UpdateStory(ctx, story.StoryID, map[string]any{"translated_count": n}); err != nil {
		return story.TranslatedCount, err
	}
	t.log.WithFields(logrus.Fields{
		"story_id": story.StoryID,
		"from":     story.TranslatedCount,
		"to":       n,
	}).Debug("translated count updated")
	story.TranslatedCount = n
	return n, nil
}
