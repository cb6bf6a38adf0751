// Package splitter turns imported story text into ordered paragraphs.
//
// Text is cut on blank lines, segments are trimmed and empty ones dropped.
// Original and machine texts are zipped by position; the shorter side is
// padded with empty strings, so a story without machine translation is valid
// input. In chapter mode every chapter is split on its own while paragraph
// indices keep counting across chapters.
package splitter

import (
	"fmt"
	"strings"

	"storyhub/entities"
)

// DefaultPlaceholderURL is formatted with a "<story>-<paragraph>-<position>" seed.
const DefaultPlaceholderURL = "https://picsum.photos/seed/%s/400/300"

type Segment struct {
	Original string
	Machine  string
}

type ChapterText struct {
	Title        string `json:"title" yaml:"title"`
	OriginalText string `json:"original_text" yaml:"original_text"`
	MachineText  string `json:"machine_text" yaml:"machine_text"`
}

type Chapter struct {
	Index int
	Title string
}

type Paragraph struct {
	Index        int // 1-based, story-global
	ChapterIndex int // 0 outside chapter mode
	Original     string
	Machine      string
}

// Plan is the full content of a story after splitting.
type Plan struct {
	Chapters   []Chapter
	Paragraphs []Paragraph
}

// Parts splits text on blank lines.
func Parts(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Split zips the paragraphs of original and machine up to the longer of the two.
func Split(original, machine string) []Segment {
	orig := Parts(original)
	mach := Parts(machine)
	n := max(len(orig), len(mach))
	out := make([]Segment, n)
	for i := 0; i < n; i++ {
		if i < len(orig) {
			out[i].Original = orig[i]
		}
		if i < len(mach) {
			out[i].Machine = mach[i]
		}
	}
	return out
}

func PlanText(original, machine string) Plan {
	segs := Split(original, machine)
	plan := Plan{Paragraphs: make([]Paragraph, 0, len(segs))}
	for i, s := range segs {
		plan.Paragraphs = append(plan.Paragraphs, Paragraph{Index: i + 1, Original: s.Original, Machine: s.Machine})
	}
	return plan
}

func PlanChapters(chapters []ChapterText) Plan {
	plan := Plan{Chapters: make([]Chapter, 0, len(chapters))}
	global := 0
	for i, ch := range chapters {
		idx := i + 1
		plan.Chapters = append(plan.Chapters, Chapter{Index: idx, Title: strings.TrimSpace(ch.Title)})
		for _, s := range Split(ch.OriginalText, ch.MachineText) {
			global++
			plan.Paragraphs = append(plan.Paragraphs, Paragraph{
				Index:        global,
				ChapterIndex: idx,
				Original:     s.Original,
				Machine:      s.Machine,
			})
		}
	}
	return plan
}

// PlaceholderURL is deterministic in (story, paragraph, position).
func PlaceholderURL(pattern string, storyID uint, paragraphIndex, position int) string {
	if pattern == "" {
		pattern = DefaultPlaceholderURL
	}
	return fmt.Sprintf(pattern, fmt.Sprintf("%d-%d-%d", storyID, paragraphIndex, position))
}

// Placeholders builds the unselected illustration slots of one paragraph.
func Placeholders(pattern string, storyID uint, paragraphIndex int) []entities.Illustration {
	out := make([]entities.Illustration, 0, entities.IllustrationSlots)
	for pos := 1; pos <= entities.IllustrationSlots; pos++ {
		out = append(out, entities.Illustration{
			Position: pos,
			ImageURL: PlaceholderURL(pattern, storyID, paragraphIndex, pos),
		})
	}
	return out
}
