// Package export writes a story and its final translation to an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetParagraphs = "Paragraphs"
	SheetStory      = "Story"
)

type Row struct {
	Index       int
	Chapter     string
	Original    string
	Machine     string
	Translation string
	Finalized   bool
}

type Meta struct {
	Title      string
	Slug       string
	Status     string
	Source     string
	Target     string
	Translator string
	Progress   string
}

var header = []any{"#", "Chapter", "Original", "Machine", "Translation", "Finalized"}

// Write renders meta and rows as a two-sheet workbook.
func Write(w io.Writer, meta Meta, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetParagraphs); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetParagraphs, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		fin := "no"
		if r.Finalized {
			fin = "yes"
		}
		vals := []any{r.Index, r.Chapter, r.Original, r.Machine, r.Translation, fin}
		if err := f.SetSheetRow(SheetParagraphs, cell, &vals); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 6, "B": 18, "C": 60, "D": 60, "E": 60, "F": 10} {
		if err := f.SetColWidth(SheetParagraphs, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SheetParagraphs, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetStory); err != nil {
		return err
	}
	pairs := [][2]string{
		{"Title", meta.Title},
		{"Slug", meta.Slug},
		{"Status", meta.Status},
		{"Languages", fmt.Sprintf("%s → %s", meta.Source, meta.Target)},
		{"Translator", meta.Translator},
		{"Progress", meta.Progress},
	}
	for i, p := range pairs {
		row := []any{p[0], p[1]}
		if err := f.SetSheetRow(SheetStory, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
