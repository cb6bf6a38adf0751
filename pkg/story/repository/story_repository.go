package repository

import (
	"context"
	"time"

	"storyhub/entities"
)

// Outcome tags the result of a get-or-create call.
type Outcome int

const (
	Existing Outcome = iota
	Created
)

func (o Outcome) String() string {
	if o == Created {
		return "created"
	}
	return "existing"
}

type StoryFilter struct {
	Statuses   []entities.StoryStatus
	AssignedTo *uint
	Unassigned bool
	Search     string // title substring
}

// StoryRepository persists stories with their content, assignments and
// translations. Operations that must be atomic run inside Transaction and use
// only the repository handed to fn.
type StoryRepository interface {
	Transaction(ctx context.Context, fn func(tx StoryRepository) error) error

	// stories
	CreateStory(ctx context.Context, s *entities.Story) error
	FindStory(ctx context.Context, id uint) (*entities.Story, error)
	FindStoryForUpdate(ctx context.Context, id uint) (*entities.Story, error)
	FindStoryBySlug(ctx context.Context, slug string) (*entities.Story, error)
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	ListStories(ctx context.Context, f StoryFilter) ([]entities.Story, error)
	UpdateStory(ctx context.Context, id uint, fields map[string]any) error
	// ClaimStory assigns the story unless another translator holds it and
	// reports whether this call owns the assignment afterwards.
	ClaimStory(ctx context.Context, storyID, translatorID uint) (bool, error)

	// catalog
	EnsureLanguage(ctx context.Context, code, name string) (*entities.Language, error)
	EnsureTag(ctx context.Context, name, slug string) (*entities.Tag, error)
	ReplaceStoryTags(ctx context.Context, s *entities.Story, tags []entities.Tag) error

	// content
	DeleteContent(ctx context.Context, storyID uint) error
	CreateChapter(ctx context.Context, c *entities.Chapter) error
	CreateParagraph(ctx context.Context, p *entities.Paragraph) error
	ListChapters(ctx context.Context, storyID uint) ([]entities.Chapter, error)
	ListParagraphs(ctx context.Context, storyID uint) ([]entities.Paragraph, error)
	FindParagraph(ctx context.Context, id uint) (*entities.Paragraph, error)
	FindIllustration(ctx context.Context, id uint) (*entities.Illustration, error)
	SetIllustrationSelected(ctx context.Context, id uint, selected bool) error
	ClearSelectedIllustrations(ctx context.Context, paragraphID, exceptID uint) error

	// assignments
	GetOrCreateAssignment(ctx context.Context, storyID, translatorID uint, defaults entities.TranslatorAssignment) (*entities.TranslatorAssignment, Outcome, error)
	FindAssignment(ctx context.Context, storyID, translatorID uint) (*entities.TranslatorAssignment, error)
	SaveAssignment(ctx context.Context, a *entities.TranslatorAssignment) error
	CompleteAssignment(ctx context.Context, storyID, translatorID uint, at time.Time) (int64, error)
	CountActiveAssignments(ctx context.Context, storyID uint) (int64, error)

	// translations
	GetOrCreateTranslation(ctx context.Context, paragraphID, translatorID uint) (*entities.Translation, Outcome, error)
	FindTranslation(ctx context.Context, paragraphID, translatorID uint) (*entities.Translation, error)
	SaveTranslation(ctx context.Context, t *entities.Translation) error
	DeleteTranslation(ctx context.Context, paragraphID, translatorID uint) (bool, error)
	CountFinalized(ctx context.Context, storyID, translatorID uint) (int, error)
	ListTranslations(ctx context.Context, storyID, translatorID uint) ([]entities.Translation, error)

	// notes
	CreateNote(ctx context.Context, n *entities.ParagraphNote) error
	FindNote(ctx context.Context, id uint) (*entities.ParagraphNote, error)
	SaveNote(ctx context.Context, n *entities.ParagraphNote) error
	ListNotes(ctx context.Context, paragraphID uint) ([]entities.ParagraphNote, error)
}
