package entities

import "time"

type Translation struct {
	TranslationID uint      `gorm:"primaryKey" json:"translation_id"`
	ParagraphID   uint      `gorm:"not null;uniqueIndex:idx_translation_pair" json:"paragraph_id"`
	TranslatorID  uint      `gorm:"not null;uniqueIndex:idx_translation_pair;index" json:"translator_id"`
	Text          string    `json:"text"`
	IsFinalized   bool      `gorm:"not null;default:false;index" json:"is_finalized"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AssignmentStatus string

const (
	AssignmentRequested AssignmentStatus = "REQUESTED"
	AssignmentActive    AssignmentStatus = "ACTIVE"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
)

// TranslatorAssignment binds a translator to a story. At most one row per
// story may be ACTIVE; database.OpenSQLite installs a partial unique index for it.
type TranslatorAssignment struct {
	AssignmentID uint             `gorm:"primaryKey" json:"assignment_id"`
	StoryID      uint             `gorm:"not null;uniqueIndex:idx_assignment_pair;index:idx_assignment_story_status" json:"story_id"`
	TranslatorID uint             `gorm:"not null;uniqueIndex:idx_assignment_pair;index:idx_assignment_translator_status" json:"translator_id"`
	Status       AssignmentStatus `gorm:"size:12;not null;default:ACTIVE;index:idx_assignment_story_status;index:idx_assignment_translator_status" json:"status"`
	AcceptedAt   *time.Time       `json:"accepted_at"`
	CompletedAt  *time.Time       `json:"completed_at"`
}

type ParagraphNote struct {
	NoteID      uint      `gorm:"primaryKey" json:"note_id"`
	ParagraphID uint      `gorm:"not null;index" json:"paragraph_id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Text        string    `gorm:"not null" json:"text"`
	Resolved    bool      `gorm:"not null;default:false" json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}
