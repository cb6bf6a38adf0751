package serviceImp

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/htmltext"
	"storyhub/pkg/mt"
	"storyhub/pkg/splitter"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/story/service"
)

// source is validated content ready for the splitter.
type source struct {
	plan     splitter.Plan
	chapters int
}

func prepare(in service.ContentInput) (source, error) {
	if len(in.Chapters) > 0 {
		if in.OriginalText != "" || in.MachineText != "" || in.OriginalHTML != "" {
			return source{}, apperr.Validation("send either chapters or original_text, not both")
		}
		return source{plan: splitter.PlanChapters(in.Chapters), chapters: len(in.Chapters)}, nil
	}
	original := in.OriginalText
	if strings.TrimSpace(in.OriginalHTML) != "" {
		if strings.TrimSpace(original) != "" {
			return source{}, apperr.Validation("send either original_html or original_text, not both")
		}
		_, text, err := htmltext.ExtractString(in.OriginalHTML)
		if err != nil {
			return source{}, apperr.Validation("original_html: %v", err)
		}
		original = text
	}
	src := source{plan: splitter.PlanText(original, in.MachineText)}
	if strings.TrimSpace(original) != "" || strings.TrimSpace(in.MachineText) != "" {
		src.chapters = 1
	}
	return src, nil
}

// fillMachineText translates paragraphs that arrived without machine text.
// Failures leave the slot empty; once the budget is spent the rest stay empty.
func (s *storySvc) fillMachineText(ctx context.Context, src *source, from, to string) {
	if !mt.Enabled(s.mt) {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.mtBudget)
	defer cancel()
	filled := 0
	for i := range src.plan.Paragraphs {
		p := &src.plan.Paragraphs[i]
		if p.Machine != "" || p.Original == "" {
			continue
		}
		out, err := s.mt.Translate(ctx, p.Original, from, to)
		if err != nil {
			s.log.WithError(err).WithField("paragraph", p.Index).Warn("machine translation failed")
			if ctx.Err() != nil {
				s.log.WithFields(logrus.Fields{"filled": filled, "budget": s.mtBudget}).
					Warn("machine translation stopped, remaining paragraphs left empty")
				return
			}
			continue
		}
		p.Machine = out
		filled++
	}
	if filled > 0 {
		s.log.WithField("paragraphs", filled).Debug("machine text filled")
	}
}

// replaceContent drops every chapter, paragraph, illustration and translation
// of the story and writes the new plan with fresh placeholders.
func (s *storySvc) replaceContent(ctx context.Context, tx repository.StoryRepository, story *entities.Story, src source) (*service.ParseResult, error) {
	if err := tx.DeleteContent(ctx, story.StoryID); err != nil {
		return nil, err
	}
	chapterIDs := make(map[int]uint, len(src.plan.Chapters))
	for _, ch := range src.plan.Chapters {
		c := &entities.Chapter{StoryID: story.StoryID, Index: ch.Index, Title: ch.Title}
		if err := tx.CreateChapter(ctx, c); err != nil {
			return nil, err
		}
		chapterIDs[ch.Index] = c.ChapterID
	}
	for _, p := range src.plan.Paragraphs {
		para := &entities.Paragraph{
			StoryID:       story.StoryID,
			Index:         p.Index,
			OriginalText:  p.Original,
			MachineText:   p.Machine,
			Illustrations: splitter.Placeholders(s.placeholder, story.StoryID, p.Index),
		}
		if id, ok := chapterIDs[p.ChapterIndex]; ok {
			para.ChapterID = &id
		}
		if err := tx.CreateParagraph(ctx, para); err != nil {
			return nil, err
		}
	}
	n := len(src.plan.Paragraphs)
	if err := tx.UpdateStory(ctx, story.StoryID, map[string]any{
		"paragraphs_count": n,
		"translated_count": 0,
	}); err != nil {
		return nil, err
	}
	story.ParagraphsCount = n
	story.TranslatedCount = 0
	return &service.ParseResult{Story: story, ParagraphCount: n, ChapterCount: src.chapters}, nil
}
