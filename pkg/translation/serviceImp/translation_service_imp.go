package serviceImp

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/progress"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/translation/service"
)

type translationSvc struct {
	repo    repository.StoryRepository
	tracker *progress.Tracker
	log     logrus.FieldLogger
}

func NewTranslationService(repo repository.StoryRepository, tracker *progress.Tracker, log logrus.FieldLogger) service.TranslationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if tracker == nil {
		tracker = progress.NewTracker(log)
	}
	return &translationSvc{repo: repo, tracker: tracker, log: log.WithField("component", "translation")}
}

// canEdit: admins, or the translator the story is assigned to.
func canEdit(actor auth.Actor, story *entities.Story) bool {
	return actor.IsAdmin() || (actor.IsTranslator() && story.IsAssignedTo(actor.UserID))
}

// lockParagraph loads a paragraph with its story row locked and checks edit rights.
func lockParagraph(ctx context.Context, tx repository.StoryRepository, paragraphID uint, actor auth.Actor) (*entities.Paragraph, *entities.Story, error) {
	p, err := tx.FindParagraph(ctx, paragraphID)
	if err != nil {
		return nil, nil, err
	}
	story, err := tx.FindStoryForUpdate(ctx, p.StoryID)
	if err != nil {
		return nil, nil, err
	}
	if !canEdit(actor, story) {
		return nil, nil, apperr.Permission("paragraph %d: story %d is not assigned to you", paragraphID, story.StoryID)
	}
	return p, story, nil
}

// Record upserts the actor's translation of one paragraph and refreshes the
// story's progress in the same transaction.
func (s *translationSvc) Record(ctx context.Context, in service.RecordInput, actor auth.Actor) (*service.RecordResult, error) {
	if in.Text == nil && in.IsFinalized == nil {
		return nil, apperr.Validation("text or is_finalized is required")
	}
	var out *service.RecordResult
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		p, story, err := lockParagraph(ctx, tx, in.ParagraphID, actor)
		if err != nil {
			return err
		}
		t, outcome, err := tx.GetOrCreateTranslation(ctx, in.ParagraphID, actor.UserID)
		if err != nil {
			return err
		}
		if in.Text != nil {
			t.Text = *in.Text
		}
		if in.IsFinalized != nil {
			t.IsFinalized = *in.IsFinalized
		}
		// a paragraph with no original text may be finalized empty
		if t.IsFinalized && strings.TrimSpace(t.Text) == "" && strings.TrimSpace(p.OriginalText) != "" {
			return apperr.Validation("paragraph %d: cannot finalize an empty translation", in.ParagraphID)
		}
		if err := tx.SaveTranslation(ctx, t); err != nil {
			return err
		}
		n, err := s.tracker.Recompute(ctx, tx, story)
		if err != nil {
			return err
		}
		out = &service.RecordResult{Translation: t, Outcome: outcome, TranslatedCount: n, ParagraphsCount: story.ParagraphsCount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"paragraph_id":  in.ParagraphID,
		"translator_id": actor.UserID,
		"outcome":       out.Outcome.String(),
		"finalized":     out.Translation.IsFinalized,
	}).Debug("translation recorded")
	return out, nil
}

func (s *translationSvc) Delete(ctx context.Context, paragraphID uint, actor auth.Actor) (*entities.Story, error) {
	var out *entities.Story
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		_, story, err := lockParagraph(ctx, tx, paragraphID, actor)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteTranslation(ctx, paragraphID, actor.UserID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("translation for paragraph", paragraphID)
		}
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

func (s *translationSvc) Editor(ctx context.Context, paragraphID uint, actor auth.Actor) (*service.EditorView, error) {
	p, err := s.repo.FindParagraph(ctx, paragraphID)
	if err != nil {
		return nil, err
	}
	story, err := s.repo.FindStory(ctx, p.StoryID)
	if err != nil {
		return nil, err
	}
	if !canEdit(actor, story) {
		return nil, apperr.Permission("paragraph %d: story %d is not assigned to you", paragraphID, story.StoryID)
	}
	view := &service.EditorView{Paragraph: p, Text: p.MachineText}
	t, err := s.repo.FindTranslation(ctx, paragraphID, actor.UserID)
	switch {
	case err == nil:
		if t.Text != "" {
			view.Text = t.Text
		}
		view.IsFinalized = t.IsFinalized
	case apperr.KindOf(err) != apperr.KindNotFound:
		return nil, err
	}
	return view, nil
}

// SelectIllustration keeps at most one selected illustration per paragraph:
// selecting one clears its siblings.
func (s *translationSvc) SelectIllustration(ctx context.Context, illustrationID uint, selected bool, actor auth.Actor) (*entities.Illustration, error) {
	var out *entities.Illustration
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		ill, err := tx.FindIllustration(ctx, illustrationID)
		if err != nil {
			return err
		}
		if _, _, err := lockParagraph(ctx, tx, ill.ParagraphID, actor); err != nil {
			return err
		}
		if selected {
			if err := tx.ClearSelectedIllustrations(ctx, ill.ParagraphID, ill.IllustrationID); err != nil {
				return err
			}
		}
		if err := tx.SetIllustrationSelected(ctx, illustrationID, selected); err != nil {
			return err
		}
		ill.IsSelected = selected
		out = ill
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
