package service

import (
	"context"
	"io"

	"storyhub/entities"
	"storyhub/pkg/auth"
	"storyhub/pkg/splitter"
)

type CreateInput struct {
	Title            string   `json:"title" yaml:"title" validate:"notblank,max=255,no_xss"`
	Description      string   `json:"description" yaml:"description"`
	OriginalLanguage string   `json:"original_language" yaml:"original_language" validate:"required,langcode"`
	TargetLanguage   string   `json:"target_language" yaml:"target_language" validate:"required,langcode,nefield=OriginalLanguage"`
	Tags             []string `json:"tags" yaml:"tags" validate:"dive,notblank,max=64"`
	PosterURL        string   `json:"poster_url" yaml:"poster_url" validate:"omitempty,url"`
}

// ContentInput is the raw material for the splitter: either plain text (or
// HTML) with optional machine text, or a list of chapters.
type ContentInput struct {
	OriginalText string                 `json:"original_text" yaml:"original_text"`
	MachineText  string                 `json:"machine_text" yaml:"machine_text"`
	OriginalHTML string                 `json:"original_html" yaml:"original_html"`
	Chapters     []splitter.ChapterText `json:"chapters" yaml:"chapters"`
}

type ParseResult struct {
	Story          *entities.Story `json:"story"`
	ParagraphCount int             `json:"paragraph_count"`
	ChapterCount   int             `json:"chapter_count"`
}

type Scope string

const (
	ScopePublic    Scope = "public"
	ScopeAvailable Scope = "available"
	ScopeMine      Scope = "in_progress"
	ScopeCompleted Scope = "completed"
)

type ListQuery struct {
	Scope  Scope                `query:"scope" validate:"omitempty,oneof=public available in_progress completed"`
	Status entities.StoryStatus `query:"status" validate:"omitempty,oneof=DRAFT IN_TRANSLATION REVIEW PUBLISHED"`
	Search string               `query:"q" validate:"max=255"`
}

// ParagraphView pairs a paragraph with the assigned translator's text.
type ParagraphView struct {
	entities.Paragraph
	Translation string `json:"translation"`
	IsFinalized bool   `json:"is_finalized"`
}

type StoryService interface {
	Create(ctx context.Context, in CreateInput, actor auth.Actor) (*entities.Story, error)
	// Import creates a story and parses its content in one call.
	Import(ctx context.Context, in CreateInput, content ContentInput, actor auth.Actor) (*ParseResult, error)
	// Parse replaces all content of an existing story.
	Parse(ctx context.Context, storyID uint, content ContentInput, actor auth.Actor) (*ParseResult, error)

	Get(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error)
	GetBySlug(ctx context.Context, slug string, actor auth.Actor) (*entities.Story, error)
	List(ctx context.Context, q ListQuery, actor auth.Actor) ([]entities.Story, error)

	Preview(ctx context.Context, storyID uint, limit int, actor auth.Actor) ([]entities.Paragraph, error)
	Paragraphs(ctx context.Context, storyID uint, actor auth.Actor) ([]ParagraphView, error)
	Export(ctx context.Context, storyID uint, w io.Writer, actor auth.Actor) error
}
