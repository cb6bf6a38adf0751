package serviceImp

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/export"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/story/service"
	"storyhub/pkg/validation"
)

// visible hides unpublished stories from readers.
func visible(story *entities.Story, actor auth.Actor) bool {
	return story.IsPublished() || actor.IsStaff()
}

func (s *storySvc) Get(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error) {
	story, err := s.repo.FindStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !visible(story, actor) {
		return nil, apperr.NotFound("story", storyID)
	}
	return story, nil
}

func (s *storySvc) GetBySlug(ctx context.Context, sl string, actor auth.Actor) (*entities.Story, error) {
	story, err := s.repo.FindStoryBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if !visible(story, actor) {
		return nil, apperr.NotFound("story", sl)
	}
	return story, nil
}

func (s *storySvc) List(ctx context.Context, q service.ListQuery, actor auth.Actor) ([]entities.Story, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	f := repository.StoryFilter{Search: strings.TrimSpace(q.Search)}
	var allowed []entities.StoryStatus
	uid := actor.UserID

	switch q.Scope {
	case "", service.ScopePublic:
		if !actor.IsStaff() {
			allowed = []entities.StoryStatus{entities.StoryPublished}
		}
	case service.ScopeAvailable:
		if !actor.IsTranslator() {
			return nil, apperr.Permission("listing available stories requires the translator role")
		}
		allowed = []entities.StoryStatus{entities.StoryDraft, entities.StoryInTranslation}
		f.Unassigned = true
	case service.ScopeMine:
		if !actor.IsTranslator() {
			return nil, apperr.Permission("listing your stories requires the translator role")
		}
		allowed = []entities.StoryStatus{entities.StoryInTranslation}
		f.AssignedTo = &uid
	case service.ScopeCompleted:
		if !actor.IsTranslator() {
			return nil, apperr.Permission("listing your stories requires the translator role")
		}
		allowed = []entities.StoryStatus{entities.StoryReview, entities.StoryPublished}
		f.AssignedTo = &uid
	}

	switch {
	case q.Status == "":
		f.Statuses = allowed
	case allowed == nil || slices.Contains(allowed, q.Status):
		f.Statuses = []entities.StoryStatus{q.Status}
	default:
		return []entities.Story{}, nil
	}
	return s.repo.ListStories(ctx, f)
}

// Preview shows the first paragraphs so a translator can decide to claim.
func (s *storySvc) Preview(ctx context.Context, storyID uint, limit int, actor auth.Actor) ([]entities.Paragraph, error) {
	if !actor.IsTranslator() {
		return nil, apperr.Permission("preview requires the translator role")
	}
	if limit <= 0 {
		limit = defaultPreview
	}
	if _, err := s.repo.FindStory(ctx, storyID); err != nil {
		return nil, err
	}
	ps, err := s.repo.ListParagraphs(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps, nil
}

// Paragraphs lists the story with the assigned translator's text. Published
// stories are readable by anyone; others only by admins and the assignee.
func (s *storySvc) Paragraphs(ctx context.Context, storyID uint, actor auth.Actor) ([]service.ParagraphView, error) {
	story, err := s.repo.FindStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if err := canRead(story, actor); err != nil {
		return nil, err
	}
	return s.paragraphViews(ctx, story)
}

func canRead(story *entities.Story, actor auth.Actor) error {
	if story.IsPublished() || actor.IsAdmin() || story.IsAssignedTo(actor.UserID) {
		return nil
	}
	if !actor.IsStaff() {
		return apperr.NotFound("story", story.StoryID)
	}
	return apperr.Permission("story %d is not assigned to you", story.StoryID)
}

func (s *storySvc) paragraphViews(ctx context.Context, story *entities.Story) ([]service.ParagraphView, error) {
	ps, err := s.repo.ListParagraphs(ctx, story.StoryID)
	if err != nil {
		return nil, err
	}
	byParagraph := map[uint]entities.Translation{}
	if story.AssignedTo != nil {
		ts, err := s.repo.ListTranslations(ctx, story.StoryID, *story.AssignedTo)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			byParagraph[t.ParagraphID] = t
		}
	}
	out := make([]service.ParagraphView, 0, len(ps))
	for _, p := range ps {
		v := service.ParagraphView{Paragraph: p}
		if t, ok := byParagraph[p.ParagraphID]; ok {
			v.Translation = t.Text
			v.IsFinalized = t.IsFinalized
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *storySvc) Export(ctx context.Context, storyID uint, w io.Writer, actor auth.Actor) error {
	story, err := s.repo.FindStory(ctx, storyID)
	if err != nil {
		return err
	}
	if err := canRead(story, actor); err != nil {
		return err
	}
	views, err := s.paragraphViews(ctx, story)
	if err != nil {
		return err
	}
	chapters, err := s.repo.ListChapters(ctx, storyID)
	if err != nil {
		return err
	}
	titles := make(map[uint]string, len(chapters))
	for _, c := range chapters {
		titles[c.ChapterID] = c.Title
		if c.Title == "" {
			titles[c.ChapterID] = fmt.Sprintf("Chapter %d", c.Index)
		}
	}

	rows := make([]export.Row, 0, len(views))
	for _, v := range views {
		r := export.Row{
			Index:       v.Index,
			Original:    v.OriginalText,
			Machine:     v.MachineText,
			Translation: v.Translation,
			Finalized:   v.IsFinalized,
		}
		if v.ChapterID != nil {
			r.Chapter = titles[*v.ChapterID]
		}
		rows = append(rows, r)
	}
	meta := export.Meta{
		Title:    story.Title,
		Slug:     story.Slug,
		Status:   string(story.Status),
		Progress: fmt.Sprintf("%d/%d", story.TranslatedCount, story.ParagraphsCount),
	}
	if story.OriginalLanguage != nil {
		meta.Source = story.OriginalLanguage.Code
	}
	if story.TargetLanguage != nil {
		meta.Target = story.TargetLanguage.Code
	}
	if story.AssignedTo != nil && s.users != nil {
		if u, err := s.users.FindByID(ctx, *story.AssignedTo); err == nil {
			meta.Translator = u.Username
		}
	}
	return export.Write(w, meta, rows)
}
