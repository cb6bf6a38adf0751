package service

import (
	"context"

	"storyhub/entities"
	"storyhub/pkg/auth"
	"storyhub/pkg/story/repository"
)

// RecordInput carries a partial update; nil fields keep their stored value.
type RecordInput struct {
	ParagraphID uint
	Text        *string
	IsFinalized *bool
}

type RecordResult struct {
	Translation     *entities.Translation `json:"translation"`
	Outcome         repository.Outcome    `json:"-"`
	TranslatedCount int                   `json:"translated_count"`
	ParagraphsCount int                   `json:"paragraphs_count"`
}

func (r *RecordResult) Created() bool { return r.Outcome == repository.Created }

// EditorView is what the translation form shows for one paragraph.
type EditorView struct {
	Paragraph   *entities.Paragraph `json:"paragraph"`
	Text        string              `json:"text"`
	IsFinalized bool                `json:"is_finalized"`
}

type NotePatch struct {
	Text     *string
	Resolved *bool
}

type TranslationService interface {
	Record(ctx context.Context, in RecordInput, actor auth.Actor) (*RecordResult, error)
	Delete(ctx context.Context, paragraphID uint, actor auth.Actor) (*entities.Story, error)
	Editor(ctx context.Context, paragraphID uint, actor auth.Actor) (*EditorView, error)
	SelectIllustration(ctx context.Context, illustrationID uint, selected bool, actor auth.Actor) (*entities.Illustration, error)

	AddNote(ctx context.Context, paragraphID uint, text string, actor auth.Actor) (*entities.ParagraphNote, error)
	UpdateNote(ctx context.Context, noteID uint, patch NotePatch, actor auth.Actor) (*entities.ParagraphNote, error)
	ListNotes(ctx context.Context, paragraphID uint, actor auth.Actor) ([]entities.ParagraphNote, error)
}
