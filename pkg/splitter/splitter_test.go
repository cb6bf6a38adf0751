package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAsymmetricInput(t *testing.T) {
	got := Split("A\n\nB", "")
	assert.Equal(t, []Segment{{Original: "A"}, {Original: "B"}}, got)
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split("", ""))
	assert.Empty(t, Split("  \n\n \n\n", "\n"))
}

func TestSplitMachineLonger(t *testing.T) {
	got := Split("one", "uno\n\ndos")
	assert.Equal(t, []Segment{{Original: "one", Machine: "uno"}, {Machine: "dos"}}, got)
}

func TestPartsTrimsAndDropsBlankSegments(t *testing.T) {
	got := Parts("\r\n  first line\r\nstill first  \r\n\r\n\n\n\n second \n\n")
	assert.Equal(t, []string{"first line\nstill first", "second"}, got)
}

func TestPlanText(t *testing.T) {
	plan := PlanText("X1\n\nX2", "Y1\n\nY2")
	assert.Empty(t, plan.Chapters)
	require.Len(t, plan.Paragraphs, 2)
	assert.Equal(t, Paragraph{Index: 1, Original: "X1", Machine: "Y1"}, plan.Paragraphs[0])
	assert.Equal(t, Paragraph{Index: 2, Original: "X2", Machine: "Y2"}, plan.Paragraphs[1])
}

func TestPlanChaptersUsesGlobalIndices(t *testing.T) {
	plan := PlanChapters([]ChapterText{
		{Title: " One ", OriginalText: "a\n\nb"},
		{Title: "Empty"},
		{Title: "Three", OriginalText: "c", MachineText: "C\n\nD"},
	})
	require.Len(t, plan.Chapters, 3)
	assert.Equal(t, Chapter{Index: 1, Title: "One"}, plan.Chapters[0])
	assert.Equal(t, 3, plan.Chapters[2].Index)

	var idx, chapters []int
	for _, p := range plan.Paragraphs {
		idx = append(idx, p.Index)
		chapters = append(chapters, p.ChapterIndex)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, idx)
	assert.Equal(t, []int{1, 1, 3, 3}, chapters)
	assert.Equal(t, "D", plan.Paragraphs[3].Machine)
	assert.Equal(t, "", plan.Paragraphs[3].Original)
}

func TestPlaceholders(t *testing.T) {
	ills := Placeholders("", 7, 3)
	require.Len(t, ills, 5)
	for i, ill := range ills {
		assert.Equal(t, i+1, ill.Position)
		assert.False(t, ill.IsSelected)
	}
	assert.Equal(t, "https://picsum.photos/seed/7-3-1/400/300", ills[0].ImageURL)
	assert.Equal(t, ills[4].ImageURL, PlaceholderURL(DefaultPlaceholderURL, 7, 3, 5))
	assert.Equal(t, "https://img.test/7-3-2.png", PlaceholderURL("https://img.test/%s.png", 7, 3, 2))
}
