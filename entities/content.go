package entities

// IllustrationSlots is the number of placeholder illustrations created per paragraph.
const IllustrationSlots = 5

type Chapter struct {
	ChapterID uint   `gorm:"primaryKey" json:"chapter_id"`
	StoryID   uint   `gorm:"not null;uniqueIndex:idx_chapter_story_index" json:"story_id"`
	Index     int    `gorm:"column:index_no;not null;uniqueIndex:idx_chapter_story_index" json:"index"` // 1..N within the story
	Title     string `gorm:"size:255" json:"title"`
}

type Paragraph struct {
	ParagraphID  uint   `gorm:"primaryKey" json:"paragraph_id"`
	StoryID      uint   `gorm:"not null;uniqueIndex:idx_paragraph_story_index" json:"story_id"`
	ChapterID    *uint  `gorm:"index" json:"chapter_id"`
	Index        int    `gorm:"column:index_no;not null;uniqueIndex:idx_paragraph_story_index" json:"index"` // story-global
	OriginalText string `json:"original_text"`
	MachineText  string `json:"machine_text"`

	Illustrations []Illustration `gorm:"foreignKey:ParagraphID;constraint:OnDelete:CASCADE" json:"illustrations,omitempty"`
}

type Illustration struct {
	IllustrationID uint   `gorm:"primaryKey" json:"illustration_id"`
	ParagraphID    uint   `gorm:"not null;uniqueIndex:idx_illustration_paragraph_position" json:"paragraph_id"`
	Position       int    `gorm:"not null;uniqueIndex:idx_illustration_paragraph_position" json:"position"` // 1..5
	ImageURL       string `gorm:"not null" json:"image_url"`
	IsSelected     bool   `gorm:"not null;default:false" json:"is_selected"`
}
