package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// Columns of the import sheet, after a single header row
const (
	colSKU = iota
	colLevel1Name
	colLevel1Rate
	colLevel2Name
	colLevel2Rate
	colLevel3Name
)

// ImportRowError describes one rejected sheet row
type ImportRowError struct {
	Row    int      `json:"row"`
	SKU    string   `json:"sku,omitempty"`
	Errors []string `json:"errors"`
}

// ImportResult summarises a conversion rate upload
type ImportResult struct {
	TotalRows    int              `json:"total_rows"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors,omitempty"`
}

// ImportConversionRatesHandler loads rates from the first sheet of an .xlsx workbook.
// Expected columns: SKU, LEVEL1_NAME, LEVEL1_RATE, LEVEL2_NAME, LEVEL2_RATE, LEVEL3_NAME.
type ImportConversionRatesHandler struct {
	save *SaveConversionRateHandler
}

func NewImportConversionRatesHandler(save *SaveConversionRateHandler) *ImportConversionRatesHandler {
	return &ImportConversionRatesHandler{save: save}
}

// Handle validates and saves each row on its own; a bad row never stops the batch
func (h *ImportConversionRatesHandler) Handle(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.ValidationError{Subject: "rate sheet", Errors: []string{"failed to read Excel file"}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ValidationError{Subject: "rate sheet", Errors: []string{"no sheets found in Excel file"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, &domain.ValidationError{Subject: "rate sheet", Errors: []string{"file must contain a header and at least one data row"}}
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // header is row 1

		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		result.TotalRows++

		in, problems := parseRateRow(row)
		if len(problems) == 0 {
			if _, err := h.save.Handle(ctx, in); err != nil {
				var validation *domain.ValidationError
				if !errors.As(err, &validation) {
					problems = []string{err.Error()}
				} else {
					problems = validation.Errors
				}
			}
		}

		if len(problems) > 0 {
			result.ErrorCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, SKU: strings.TrimSpace(in.SKU), Errors: problems})
			rateImportRowsTotal.WithLabelValues("error").Inc()
			continue
		}

		result.SuccessCount++
		rateImportRowsTotal.WithLabelValues("success").Inc()
	}

	return result, nil
}

func parseRateRow(row []string) (domain.ConversionRateInput, []string) {
	cell := func(col int) string {
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	in := domain.ConversionRateInput{
		SKU:        cell(colSKU),
		Level1Name: cell(colLevel1Name),
		Level2Name: cell(colLevel2Name),
		Level3Name: cell(colLevel3Name),
	}

	var problems []string
	parseRate := func(col int, field string) *int {
		raw := cell(col)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a whole number, got %q", field, raw))
			return nil
		}
		return &n
	}
	in.Level1Rate = parseRate(colLevel1Rate, "level1_rate")
	in.Level2Rate = parseRate(colLevel2Rate, "level2_rate")
	return in, problems
}
