package entities

import "time"

type StoryStatus string

const (
	StoryDraft         StoryStatus = "DRAFT"
	StoryInTranslation StoryStatus = "IN_TRANSLATION"
	StoryReview        StoryStatus = "REVIEW"
	StoryPublished     StoryStatus = "PUBLISHED"
)

type Story struct {
	StoryID            uint        `gorm:"primaryKey" json:"story_id"`
	Title              string      `gorm:"size:255;not null" json:"title"`
	Slug               string      `gorm:"size:260;uniqueIndex" json:"slug"`
	Description        string      `json:"description"`
	OriginalLanguageID uint        `gorm:"index" json:"original_language_id"`
	TargetLanguageID   uint        `gorm:"index" json:"target_language_id"`
	Status             StoryStatus `gorm:"size:20;index;not null;default:DRAFT" json:"status"`
	AssignedTo         *uint       `gorm:"index" json:"assigned_to"` // written only by the workflow
	ParagraphsCount    int         `gorm:"not null;default:0" json:"paragraphs_count"`
	TranslatedCount    int         `gorm:"not null;default:0" json:"translated_count"` // cached, see pkg/progress
	PublishedAt        *time.Time  `json:"published_at"`
	PosterURL          string      `json:"poster_url"`

	OriginalLanguage *Language `gorm:"foreignKey:OriginalLanguageID;references:LanguageID" json:"original_language,omitempty"`
	TargetLanguage   *Language `gorm:"foreignKey:TargetLanguageID;references:LanguageID" json:"target_language,omitempty"`
	Tags             []Tag     `gorm:"many2many:story_tags;joinForeignKey:StoryID;joinReferences:TagID" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Story) IsPublished() bool { return s.Status == StoryPublished }

// IsAssignedTo reports whether translatorID is the story's current translator.
func (s *Story) IsAssignedTo(translatorID uint) bool {
	return s.AssignedTo != nil && *s.AssignedTo == translatorID
}

type Language struct {
	LanguageID uint   `gorm:"primaryKey" json:"language_id"`
	Code       string `gorm:"size:8;uniqueIndex;not null" json:"code"` // ISO 639-1
	Name       string `gorm:"size:64" json:"name"`
}

type Tag struct {
	TagID uint   `gorm:"primaryKey" json:"tag_id"`
	Name  string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Slug  string `gorm:"size:72;uniqueIndex;not null" json:"slug"`
}
