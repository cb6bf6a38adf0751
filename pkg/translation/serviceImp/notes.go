package serviceImp

import (
	"context"
	"strings"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/translation/service"
)

func (s *translationSvc) AddNote(ctx context.Context, paragraphID uint, text string, actor auth.Actor) (*entities.ParagraphNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("note text is required")
	}
	var out *entities.ParagraphNote
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		if _, _, err := lockParagraph(ctx, tx, paragraphID, actor); err != nil {
			return err
		}
		n := &entities.ParagraphNote{ParagraphID: paragraphID, AuthorID: actor.UserID, Text: text}
		if err := tx.CreateNote(ctx, n); err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateNote: admins edit any note; a translator only their own, while still assigned.
func (s *translationSvc) UpdateNote(ctx context.Context, noteID uint, patch service.NotePatch, actor auth.Actor) (*entities.ParagraphNote, error) {
	var out *entities.ParagraphNote
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		n, err := tx.FindNote(ctx, noteID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if n.AuthorID != actor.UserID {
				return apperr.Permission("note %d belongs to another user", noteID)
			}
			if _, _, err := lockParagraph(ctx, tx, n.ParagraphID, actor); err != nil {
				return err
			}
		}
		if patch.Text != nil {
			text := strings.TrimSpace(*patch.Text)
			if text == "" {
				return apperr.Validation("note text is required")
			}
			n.Text = text
		}
		if patch.Resolved != nil {
			n.Resolved = *patch.Resolved
		}
		if err := tx.SaveNote(ctx, n); err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *translationSvc) ListNotes(ctx context.Context, paragraphID uint, actor auth.Actor) ([]entities.ParagraphNote, error) {
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
	return s.repo.ListNotes(ctx, paragraphID)
}
