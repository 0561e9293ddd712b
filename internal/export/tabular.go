package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nabd-labs/quiz-api/internal/corpus"
)

const categorySheet = "Categories"

// Tabular writes a denormalized spreadsheet of the document's categories
// to path: one row per category with its display names and topic/question
// counts.
func Tabular(doc *corpus.Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", categorySheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := []any{"ID", "Arabic Name", "English Name", "Description", "Icons", "Topics", "Questions"}
	if err := f.SetSheetRow(categorySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range doc.MainCategories {
		cat := &doc.MainCategories[i]

		questionCount := 0
		for j := range cat.Topics {
			questionCount += cat.Topics[j].Levels.Len()
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		row := []any{cat.ID, cat.ArabicName, cat.EnglishName, cat.Description, cat.Icons, len(cat.Topics), questionCount}
		if err := f.SetSheetRow(categorySheet, cell, &row); err != nil {
			return fmt.Errorf("writing category %d: %w", cat.ID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving spreadsheet: %w", err)
	}
	return nil
}
