package serviceImp

import (
	"context"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/workflow/service"
)

// Claim binds actor to the story and moves it to IN_TRANSLATION. The story
// row is locked, then assigned with a compare-and-set update; the partial
// unique index on ACTIVE assignments backs both. A repeated claim by the
// translator that already holds the story succeeds without changes.
func (s *workflowSvc) Claim(ctx context.Context, storyID uint, actor auth.Actor) (*service.ClaimResult, error) {
	if !actor.IsTranslator() {
		return nil, apperr.Permission("claim requires the translator role")
	}
	var out *service.ClaimResult
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		story, err := tx.FindStoryForUpdate(ctx, storyID)
		if err != nil {
			return err
		}
		if story.AssignedTo != nil && *story.AssignedTo != actor.UserID {
			return apperr.AlreadyAssigned(storyID)
		}

		now := s.now()
		a, outcome, err := tx.GetOrCreateAssignment(ctx, storyID, actor.UserID, entities.TranslatorAssignment{
			Status:     entities.AssignmentActive,
			AcceptedAt: &now,
		})
		if err != nil {
			return err
		}
		if outcome == repository.Existing {
			switch a.Status {
			case entities.AssignmentCompleted:
				return apperr.AlreadyCompleted(storyID, actor.UserID)
			case entities.AssignmentActive:
				if story.IsAssignedTo(actor.UserID) && story.Status == entities.StoryInTranslation {
					out = &service.ClaimResult{Story: story, Assignment: a, Outcome: outcome, Noop: true}
					return nil
				}
			}
		}
		if story.AssignedTo == nil && story.Status != entities.StoryDraft && story.Status != entities.StoryInTranslation {
			return apperr.Validation("story %d is %s and cannot be claimed", storyID, story.Status)
		}

		won, err := tx.ClaimStory(ctx, storyID, actor.UserID)
		if err != nil {
			return err
		}
		if !won {
			return apperr.AlreadyAssigned(storyID)
		}
		if outcome == repository.Existing {
			a.Status = entities.AssignmentActive
			a.AcceptedAt = &now
			a.CompletedAt = nil
			if err := tx.SaveAssignment(ctx, a); err != nil {
				return err
			}
		}
		active, err := tx.CountActiveAssignments(ctx, storyID)
		if err != nil {
			return err
		}
		if active != 1 {
			return apperr.AlreadyAssigned(storyID)
		}

		from := story.Status
		uid := actor.UserID
		story.AssignedTo = &uid
		story.Status = entities.StoryInTranslation
		if _, err := s.tracker.Recompute(ctx, tx, story); err != nil {
			return err
		}
		s.transition(storyID, actor.UserID, from, story.Status)
		out = &service.ClaimResult{Story: story, Assignment: a, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
