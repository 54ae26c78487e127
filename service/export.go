package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"infosight-worker/repository"
)

type Exporter interface {
	ExportKPIWorkbook(ctx context.Context) ([]byte, error)
}

type exporter struct {
	repo repository.SubmissionRepository
}

func NewExporter(repo repository.SubmissionRepository) Exporter {
	return &exporter{repo: repo}
}

const (
	definitionsSheet = "KPI Definitions"
	extractedSheet   = "Extracted KPIs"
)

// ExportKPIWorkbook builds an XLSX workbook with one sheet of KPI
// definitions and one sheet of every KPI string extracted from completed
// submissions.
func (e *exporter) ExportKPIWorkbook(ctx context.Context) ([]byte, error) {
	definitions, err := e.repo.ListKPIDefinitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("export: list kpi definitions: %w", err)
	}
	submissions, err := e.repo.ListCompletedSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: list completed submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", definitionsSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, definitionsSheet, 1, []interface{}{"Name", "Description", "Category", "Target Value", "Unit", "Active"}); err != nil {
		return nil, err
	}
	for i, definition := range definitions {
		row := []interface{}{
			definition.Name,
			definition.Description,
			definition.Category,
			definition.TargetValue,
			definition.Unit,
			definition.Active,
		}
		if err := writeRow(f, definitionsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(extractedSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, extractedSheet, 1, []interface{}{"Submission ID", "User ID", "KPI", "Sentiment", "Created At"}); err != nil {
		return nil, err
	}
	rowIdx := 2
	for _, submission := range submissions {
		for _, kpi := range submission.ExtractedKpis {
			if strings.TrimSpace(kpi) == "" {
				continue
			}
			row := []interface{}{
				submission.ID.String(),
				submission.UserId.String(),
				kpi,
				submission.Sentiment,
				submission.CreatedAt.Format("2006-01-02"),
			}
			if err := writeRow(f, extractedSheet, rowIdx, row); err != nil {
				return nil, err
			}
			rowIdx++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
