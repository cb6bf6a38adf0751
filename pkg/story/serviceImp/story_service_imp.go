package serviceImp

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/mt"
	"storyhub/pkg/slug"
	"storyhub/pkg/splitter"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/story/service"
	userRepo "storyhub/pkg/user/repository"
	"storyhub/pkg/validation"
)

const (
	slugMaxLen     = 240
	tagSlugMaxLen  = 64
	defaultPreview = 5

	defaultMTBudget = time.Minute
)

type storySvc struct {
	repo        repository.StoryRepository
	users       userRepo.UserRepository
	mt          mt.Client
	mtBudget    time.Duration
	placeholder string
	log         logrus.FieldLogger
}

type Option func(*storySvc)

// WithPlaceholderURL sets the fmt pattern for illustration placeholders.
func WithPlaceholderURL(pattern string) Option {
	return func(s *storySvc) {
		if pattern != "" {
			s.placeholder = pattern
		}
	}
}

// WithMachineTranslation fills empty machine text at parse time.
func WithMachineTranslation(c mt.Client) Option {
	return func(s *storySvc) {
		if c != nil {
			s.mt = c
		}
	}
}

// WithMachineTranslationBudget bounds the time one import or parse may spend
// on machine translation; paragraphs left over keep empty machine text.
func WithMachineTranslationBudget(d time.Duration) Option {
	return func(s *storySvc) {
		if d > 0 {
			s.mtBudget = d
		}
	}
}

func NewStoryService(repo repository.StoryRepository, users userRepo.UserRepository, log logrus.FieldLogger, opts ...Option) service.StoryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &storySvc{
		repo:        repo,
		users:       users,
		mt:          mt.NewNoop(),
		mtBudget:    defaultMTBudget,
		placeholder: splitter.DefaultPlaceholderURL,
		log:         log.WithField("component", "story"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *storySvc) Create(ctx context.Context, in service.CreateInput, actor auth.Actor) (*entities.Story, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("creating stories requires the admin role")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out *entities.Story
	err := s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		story, err := s.create(ctx, tx, in)
		out = story
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"story_id": out.StoryID, "slug": out.Slug}).Info("story created")
	return out, nil
}

func (s *storySvc) create(ctx context.Context, tx repository.StoryRepository, in service.CreateInput) (*entities.Story, error) {
	src, err := tx.EnsureLanguage(ctx, strings.ToLower(in.OriginalLanguage), "")
	if err != nil {
		return nil, err
	}
	dst, err := tx.EnsureLanguage(ctx, strings.ToLower(in.TargetLanguage), "")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	base := slug.Make(title, slugMaxLen)
	if base == "" {
		base = "story"
	}
	sl, err := slug.Unique(base, func(c string) (bool, error) { return tx.SlugTaken(ctx, c, 0) })
	if err != nil {
		return nil, err
	}
	story := &entities.Story{
		Title:              title,
		Slug:               sl,
		Description:        strings.TrimSpace(in.Description),
		OriginalLanguageID: src.LanguageID,
		TargetLanguageID:   dst.LanguageID,
		Status:             entities.StoryDraft,
		PosterURL:          in.PosterURL,
		OriginalLanguage:   src,
		TargetLanguage:     dst,
	}
	if err := tx.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	tags, err := s.ensureTags(ctx, tx, in.Tags)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := tx.ReplaceStoryTags(ctx, story, tags); err != nil {
			return nil, err
		}
		story.Tags = tags
	}
	return story, nil
}

func (s *storySvc) ensureTags(ctx context.Context, tx repository.StoryRepository, names []string) ([]entities.Tag, error) {
	seen := map[string]bool{}
	out := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		ts := slug.Make(name, tagSlugMaxLen)
		if ts == "" {
			return nil, apperr.Validation("tag %q has no letters or digits", name)
		}
		tag, err := tx.EnsureTag(ctx, name, ts)
		if err != nil {
			return nil, err
		}
		out = append(out, *tag)
	}
	return out, nil
}

func (s *storySvc) Import(ctx context.Context, in service.CreateInput, content service.ContentInput, actor auth.Actor) (*service.ParseResult, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("importing stories requires the admin role")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	src, err := prepare(content)
	if err != nil {
		return nil, err
	}
	s.fillMachineText(ctx, &src, strings.ToLower(in.OriginalLanguage), strings.ToLower(in.TargetLanguage))

	var out *service.ParseResult
	err = s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		story, err := s.create(ctx, tx, in)
		if err != nil {
			return err
		}
		out, err = s.replaceContent(ctx, tx, story, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logParsed(out, "story imported")
	return out, nil
}

func (s *storySvc) Parse(ctx context.Context, storyID uint, content service.ContentInput, actor auth.Actor) (*service.ParseResult, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("parsing stories requires the admin role")
	}
	src, err := prepare(content)
	if err != nil {
		return nil, err
	}
	story, err := s.repo.FindStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.OriginalLanguage != nil && story.TargetLanguage != nil {
		s.fillMachineText(ctx, &src, story.OriginalLanguage.Code, story.TargetLanguage.Code)
	}

	var out *service.ParseResult
	err = s.repo.Transaction(ctx, func(tx repository.StoryRepository) error {
		locked, err := tx.FindStoryForUpdate(ctx, storyID)
		if err != nil {
			return err
		}
		if locked.Status == entities.StoryReview || locked.Status == entities.StoryPublished {
			return apperr.Validation("story %d is %s; its content can no longer be replaced", storyID, locked.Status)
		}
		out, err = s.replaceContent(ctx, tx, locked, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logParsed(out, "story parsed")
	return out, nil
}

func (s *storySvc) logParsed(res *service.ParseResult, msg string) {
	s.log.WithFields(logrus.Fields{
		"story_id":   res.Story.StoryID,
		"paragraphs": res.ParagraphCount,
		"chapters":   res.ChapterCount,
	}).Info(msg)
}
