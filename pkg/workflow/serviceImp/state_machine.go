package serviceImp

import (
	"context"
	"errors"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/story/repository"
)

// Complete hands a fully finalized story over to review. Stories that are
// already past translation are returned unchanged.
func (s *workflowSvc) Complete(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error) {
	if !actor.IsTranslator() {
		return nil, apperr.Permission("complete requires the translator role")
	}
	var out *entities.Story
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		story, err := tx.FindStoryForUpdate(ctx, storyID)
		if err != nil {
			return err
		}
		if !story.IsAssignedTo(actor.UserID) {
			return apperr.NotAssigned(storyID, actor.UserID)
		}
		switch story.Status {
		case entities.StoryPublished:
			out = story
			return nil
		case entities.StoryReview:
			a, err := tx.FindAssignment(ctx, storyID, actor.UserID)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			if err == nil && a.Status == entities.AssignmentCompleted {
				out = story
				return nil
			}
		case entities.StoryDraft:
			return apperr.Validation("story %d is not in translation", storyID)
		}

		finalized, err := tx.CountFinalized(ctx, storyID, actor.UserID)
		if err != nil {
			return err
		}
		if finalized != story.ParagraphsCount {
			return apperr.Incomplete(storyID, finalized, story.ParagraphsCount)
		}
		n, err := tx.CompleteAssignment(ctx, storyID, actor.UserID, s.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotAssigned(storyID, actor.UserID)
		}
		if err := tx.UpdateStory(ctx, storyID, map[string]any{"status": entities.StoryReview}); err != nil {
			return err
		}
		s.transition(storyID, actor.UserID, story.Status, entities.StoryReview)
		story.Status = entities.StoryReview
		out = story
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Publish makes a reviewed story public. Publishing twice is a no-op and keeps
// the first published_at.
func (s *workflowSvc) Publish(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("publish requires the admin role")
	}
	var out *entities.Story
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		story, err := tx.FindStoryForUpdate(ctx, storyID)
		if err != nil {
			return err
		}
		if story.Status != entities.StoryReview && story.Status != entities.StoryPublished {
			return apperr.NotInReview(storyID, string(story.Status))
		}
		if story.AssignedTo == nil {
			return apperr.NoAssignedTranslator(storyID)
		}
		finalized, err := tx.CountFinalized(ctx, storyID, *story.AssignedTo)
		if err != nil {
			return err
		}
		if finalized != story.ParagraphsCount {
			return apperr.Incomplete(storyID, finalized, story.ParagraphsCount)
		}

		fields := map[string]any{}
		if story.Status != entities.StoryPublished {
			fields["status"] = entities.StoryPublished
		}
		if story.PublishedAt == nil {
			now := s.now()
			fields["published_at"] = now
			story.PublishedAt = &now
		}
		if len(fields) > 0 {
			if err := tx.UpdateStory(ctx, storyID, fields); err != nil {
				return err
			}
			s.transition(storyID, actor.UserID, story.Status, entities.StoryPublished)
		}
		story.Status = entities.StoryPublished
		if _, err := s.tracker.Recompute(ctx, tx, story); err != nil {
			return err
		}
		out = story
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
