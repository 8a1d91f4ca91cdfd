package view

import (
	"fmt"
	"io"

	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported ingredients
const SheetName = "Ingredients"

var workbookHeader = []interface{}{"Name", "Category", "Subcategory", "Price", "Image"}

// WriteWorkbook exports the listed ingredients as an xlsx workbook. A panel
// that failed or is still loading exports only the header row.
func WriteWorkbook(w io.Writer, state domain.ViewState) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 8}) // $#,##0.00_);[Red]($#,##0.00)
	if err != nil {
		return fmt.Errorf("create price style: %w", err)
	}

	var ingredients []domain.Ingredient
	if state.Phase() == domain.PhaseLoaded {
		ingredients = state.Ingredients
	}

	for i, ing := range ingredients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{ing.Name, ing.Category, ing.Subcategory, ing.CurrentPrice, ing.CleanImageURL}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		priceCell, _ := excelize.CoordinatesToCellName(4, i+2)
		if err := f.SetCellStyle(SheetName, priceCell, priceCell, priceStyle); err != nil {
			return fmt.Errorf("style row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
