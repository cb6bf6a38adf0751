package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/story/repository"
)

type storyRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.StoryRepository { return &storyRepo{db: db} }

func (r *storyRepo) conn(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

func (r *storyRepo) Transaction(ctx context.Context, fn func(tx repository.StoryRepository) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storyRepo{db: tx})
	})
}

// first loads a single row and turns a miss into apperr.NotFound.
func first[T any](q *gorm.DB, what string, id any) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(what, id)
		}
		return nil, apperr.Internal("load "+what, err)
	}
	return &out, nil
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.Internal(msg, err)
}

// --- stories ---

func (r *storyRepo) CreateStory(ctx context.Context, s *entities.Story) error {
	return wrap("create story", r.conn(ctx).Omit(clause.Associations).Create(s).Error)
}

func (r *storyRepo) FindStory(ctx context.Context, id uint) (*entities.Story, error) {
	q := r.conn(ctx).Preload("OriginalLanguage").Preload("TargetLanguage").Preload("Tags").
		Where("story_id = ?", id)
	return first[entities.Story](q, "story", id)
}

func (r *storyRepo) FindStoryForUpdate(ctx context.Context, id uint) (*entities.Story, error) {
	// SQLite ignores the locking clause; writers are already serialized there.
	q := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("story_id = ?", id)
	return first[entities.Story](q, "story", id)
}

func (r *storyRepo) FindStoryBySlug(ctx context.Context, slug string) (*entities.Story, error) {
	q := r.conn(ctx).Preload("OriginalLanguage").Preload("TargetLanguage").Preload("Tags").
		Where("slug = ?", slug)
	return first[entities.Story](q, "story", slug)
}

func (r *storyRepo) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var n int64
	err := r.conn(ctx).Model(&entities.Story{}).Where("slug = ? AND story_id <> ?", slug, exceptID).Count(&n).Error
	return n > 0, wrap("check slug", err)
}

func (r *storyRepo) ListStories(ctx context.Context, f repository.StoryFilter) ([]entities.Story, error) {
	q := r.conn(ctx).Model(&entities.Story{}).Preload("OriginalLanguage").Preload("TargetLanguage").Preload("Tags")
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.Unassigned {
		q = q.Where("assigned_to IS NULL")
	}
	if f.Search != "" {
		q = q.Where("title LIKE ?", "%"+f.Search+"%")
	}
	var out []entities.Story
	return out, wrap("list stories", q.Order("story_id DESC").Find(&out).Error)
}

func (r *storyRepo) UpdateStory(ctx context.Context, id uint, fields map[string]any) error {
	res := r.conn(ctx).Model(&entities.Story{}).Where("story_id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperr.Internal("update story", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("story", id)
	}
	return nil
}

func (r *storyRepo) ClaimStory(ctx context.Context, storyID, translatorID uint) (bool, error) {
	res := r.conn(ctx).Model(&entities.Story{}).
		Where("story_id = ? AND (assigned_to IS NULL OR assigned_to = ?)", storyID, translatorID).
		Updates(map[string]any{"assigned_to": translatorID, "status": entities.StoryInTranslation})
	if res.Error != nil {
		return false, apperr.Internal("claim story", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// --- catalog ---

func (r *storyRepo) EnsureLanguage(ctx context.Context, code, name string) (*entities.Language, error) {
	var lang entities.Language
	res := r.conn(ctx).Where("code = ?", code).Limit(1).Find(&lang)
	if res.Error != nil {
		return nil, apperr.Internal("load language", res.Error)
	}
	if res.RowsAffected == 1 {
		return &lang, nil
	}
	if name == "" {
		name = code
	}
	lang = entities.Language{Code: code, Name: name}
	return &lang, wrap("create language", r.conn(ctx).Create(&lang).Error)
}

func (r *storyRepo) EnsureTag(ctx context.Context, name, slug string) (*entities.Tag, error) {
	var tag entities.Tag
	res := r.conn(ctx).Where("name = ?", name).Limit(1).Find(&tag)
	if res.Error != nil {
		return nil, apperr.Internal("load tag", res.Error)
	}
	if res.RowsAffected == 1 {
		return &tag, nil
	}
	tag = entities.Tag{Name: name, Slug: slug}
	return &tag, wrap("create tag", r.conn(ctx).Create(&tag).Error)
}

func (r *storyRepo) ReplaceStoryTags(ctx context.Context, s *entities.Story, tags []entities.Tag) error {
	return wrap("replace tags", r.conn(ctx).Model(s).Association("Tags").Replace(tags))
}

// --- content ---

func (r *storyRepo) DeleteContent(ctx context.Context, storyID uint) error {
	db := r.conn(ctx)
	paragraphs := db.Model(&entities.Paragraph{}).Select("paragraph_id").Where("story_id = ?", storyID)
	steps := []struct {
		what string
		run  func() error
	}{
		{"illustrations", func() error {
			return db.Where("paragraph_id IN (?)", paragraphs).Delete(&entities.Illustration{}).Error
		}},
		{"translations", func() error {
			return db.Where("paragraph_id IN (?)", paragraphs).Delete(&entities.Translation{}).Error
		}},
		{"notes", func() error {
			return db.Where("paragraph_id IN (?)", paragraphs).Delete(&entities.ParagraphNote{}).Error
		}},
		{"paragraphs", func() error {
			return db.Where("story_id = ?", storyID).Delete(&entities.Paragraph{}).Error
		}},
		{"chapters", func() error {
			return db.Where("story_id = ?", storyID).Delete(&entities.Chapter{}).Error
		}},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return apperr.Internal("delete "+s.what, err)
		}
	}
	return nil
}

func (r *storyRepo) CreateChapter(ctx context.Context, c *entities.Chapter) error {
	return wrap("create chapter", r.conn(ctx).Create(c).Error)
}

// CreateParagraph also inserts the paragraph's illustrations.
func (r *storyRepo) CreateParagraph(ctx context.Context, p *entities.Paragraph) error {
	return wrap("create paragraph", r.conn(ctx).Create(p).Error)
}

func (r *storyRepo) ListChapters(ctx context.Context, storyID uint) ([]entities.Chapter, error) {
	var out []entities.Chapter
	err := r.conn(ctx).Where("story_id = ?", storyID).Order("index_no ASC").Find(&out).Error
	return out, wrap("list chapters", err)
}

func (r *storyRepo) ListParagraphs(ctx context.Context, storyID uint) ([]entities.Paragraph, error) {
	var out []entities.Paragraph
	err := r.conn(ctx).
		Preload("Illustrations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("story_id = ?", storyID).Order("index_no ASC").Find(&out).Error
	return out, wrap("list paragraphs", err)
}

func (r *storyRepo) FindParagraph(ctx context.Context, id uint) (*entities.Paragraph, error) {
	return first[entities.Paragraph](r.conn(ctx).Where("paragraph_id = ?", id), "paragraph", id)
}

func (r *storyRepo) FindIllustration(ctx context.Context, id uint) (*entities.Illustration, error) {
	return first[entities.Illustration](r.conn(ctx).Where("illustration_id = ?", id), "illustration", id)
}

func (r *storyRepo) SetIllustrationSelected(ctx context.Context, id uint, selected bool) error {
	err := r.conn(ctx).Model(&entities.Illustration{}).Where("illustration_id = ?", id).
		Update("is_selected", selected).Error
	return wrap("select illustration", err)
}

func (r *storyRepo) ClearSelectedIllustrations(ctx context.Context, paragraphID, exceptID uint) error {
	err := r.conn(ctx).Model(&entities.Illustration{}).
		Where("paragraph_id = ? AND illustration_id <> ? AND is_selected = ?", paragraphID, exceptID, true).
		Update("is_selected", false).Error
	return wrap("clear illustrations", err)
}

// --- assignments ---

func (r *storyRepo) GetOrCreateAssignment(ctx context.Context, storyID, translatorID uint, defaults entities.TranslatorAssignment) (*entities.TranslatorAssignment, repository.Outcome, error) {
	var a entities.TranslatorAssignment
	res := r.conn(ctx).Where("story_id = ? AND translator_id = ?", storyID, translatorID).Limit(1).Find(&a)
	if res.Error != nil {
		return nil, repository.Existing, apperr.Internal("load assignment", res.Error)
	}
	if res.RowsAffected == 1 {
		return &a, repository.Existing, nil
	}
	a = defaults
	a.StoryID, a.TranslatorID = storyID, translatorID
	if err := r.conn(ctx).Create(&a).Error; err != nil {
		return nil, repository.Existing, apperr.Internal("create assignment", err)
	}
	return &a, repository.Created, nil
}

func (r *storyRepo) FindAssignment(ctx context.Context, storyID, translatorID uint) (*entities.TranslatorAssignment, error) {
	q := r.conn(ctx).Where("story_id = ? AND translator_id = ?", storyID, translatorID)
	return first[entities.TranslatorAssignment](q, "assignment", storyID)
}

func (r *storyRepo) SaveAssignment(ctx context.Context, a *entities.TranslatorAssignment) error {
	return wrap("save assignment", r.conn(ctx).Save(a).Error)
}

func (r *storyRepo) CompleteAssignment(ctx context.Context, storyID, translatorID uint, at time.Time) (int64, error) {
	res := r.conn(ctx).Model(&entities.TranslatorAssignment{}).
		Where("story_id = ? AND translator_id = ? AND status = ?", storyID, translatorID, entities.AssignmentActive).
		Updates(map[string]any{"status": entities.AssignmentCompleted, "completed_at": at})
	return res.RowsAffected, wrap("complete assignment", res.Error)
}

func (r *storyRepo) CountActiveAssignments(ctx context.Context, storyID uint) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&entities.TranslatorAssignment{}).
		Where("story_id = ? AND status = ?", storyID, entities.AssignmentActive).Count(&n).Error
	return n, wrap("count assignments", err)
}

// --- translations ---

func (r *storyRepo) GetOrCreateTranslation(ctx context.Context, paragraphID, translatorID uint) (*entities.Translation, repository.Outcome, error) {
	var t entities.Translation
	res := r.conn(ctx).Where("paragraph_id = ? AND translator_id = ?", paragraphID, translatorID).Limit(1).Find(&t)
	if res.Error != nil {
		return nil, repository.Existing, apperr.Internal("load translation", res.Error)
	}
	if res.RowsAffected == 1 {
		return &t, repository.Existing, nil
	}
	t = entities.Translation{ParagraphID: paragraphID, TranslatorID: translatorID}
	if err := r.conn(ctx).Create(&t).Error; err != nil {
		return nil, repository.Existing, apperr.Internal("create translation", err)
	}
	return &t, repository.Created, nil
}

func (r *storyRepo) FindTranslation(ctx context.Context, paragraphID, translatorID uint) (*entities.Translation, error) {
	q := r.conn(ctx).Where("paragraph_id = ? AND translator_id = ?", paragraphID, translatorID)
	return first[entities.Translation](q, "translation for paragraph", paragraphID)
}

func (r *storyRepo) SaveTranslation(ctx context.Context, t *entities.Translation) error {
	return wrap("save translation", r.conn(ctx).Save(t).Error)
}

func (r *storyRepo) DeleteTranslation(ctx context.Context, paragraphID, translatorID uint) (bool, error) {
	res := r.conn(ctx).Where("paragraph_id = ? AND translator_id = ?", paragraphID, translatorID).
		Delete(&entities.Translation{})
	return res.RowsAffected > 0, wrap("delete translation", res.Error)
}

// CountFinalized counts distinct paragraphs of the story finalized by translatorID.
func (r *storyRepo) CountFinalized(ctx context.Context, storyID, translatorID uint) (int, error) {
	var n int64
	err := r.conn(ctx).Model(&entities.Translation{}).
		Joins("JOIN paragraphs ON paragraphs.paragraph_id = translations.paragraph_id").
		Where("paragraphs.story_id = ? AND translations.translator_id = ? AND translations.is_finalized = ?", storyID, translatorID, true).
		Distinct("translations.paragraph_id").
		Count(&n).Error
	return int(n), wrap("count finalized", err)
}

func (r *storyRepo) ListTranslations(ctx context.Context, storyID, translatorID uint) ([]entities.Translation, error) {
	var out []entities.Translation
	err := r.conn(ctx).
		Joins("JOIN paragraphs ON paragraphs.paragraph_id = translations.paragraph_id").
		Where("paragraphs.story_id = ? AND translations.translator_id = ?", storyID, translatorID).
		Order("paragraphs.index_no ASC").Find(&out).Error
	return out, wrap("list translations", err)
}

// --- notes ---

func (r *storyRepo) CreateNote(ctx context.Context, n *entities.ParagraphNote) error {
	return wrap("create note", r.conn(ctx).Create(n).Error)
}

func (r *storyRepo) FindNote(ctx context.Context, id uint) (*entities.ParagraphNote, error) {
	return first[entities.ParagraphNote](r.conn(ctx).Where("note_id = ?", id), "note", id)
}

func (r *storyRepo) SaveNote(ctx context.Context, n *entities.ParagraphNote) error {
	return wrap("save note", r.conn(ctx).Save(n).Error)
}

func (r *storyRepo) ListNotes(ctx context.Context, paragraphID uint) ([]entities.ParagraphNote, error) {
	var out []entities.ParagraphNote
	err := r.conn(ctx).Where("paragraph_id = ?", paragraphID).Order("created_at DESC, note_id DESC").Find(&out).Error
	return out, wrap("list notes", err)
}
