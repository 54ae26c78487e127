package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"

	"infosight-worker/constant"
	"infosight-worker/entities"
)

func TestExportKPIWorkbook(t *testing.T) {
	submission := &entities.Submission{
		ID:            uuid.New(),
		UserId:        uuid.New(),
		VideoPath:     "videos/u1/s1/reflection.mp4",
		ExtractedKpis: pq.StringArray{"Revenue: $10k", "  ", "Signups: 42"},
		Sentiment:     string(constant.SentimentPositive),
		Status:        constant.SubmissionStatusCompleted,
		CreatedAt:     time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC),
	}
	repo := &fakeRepo{
		completedList: []*entities.Submission{submission},
		kpiDefinitions: []*entities.KPIDefinition{
			{ID: uuid.New(), Name: "Weekly Revenue", Description: "Gross revenue per week", Category: "finance", TargetValue: 10000, Unit: "USD", Active: true},
		},
	}

	data, err := NewExporter(repo).ExportKPIWorkbook(context.Background())
	if err != nil {
		t.Fatalf("ExportKPIWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if name, err := f.GetCellValue(definitionsSheet, "A2"); err != nil || name != "Weekly Revenue" {
		t.Fatalf("definitions A2 = %q, err %v", name, err)
	}
	if kpi, err := f.GetCellValue(extractedSheet, "C2"); err != nil || kpi != "Revenue: $10k" {
		t.Fatalf("extracted C2 = %q, err %v", kpi, err)
	}
	// Blank KPI strings are skipped, so the second real KPI lands on row 3.
	if kpi, err := f.GetCellValue(extractedSheet, "C3"); err != nil || kpi != "Signups: 42" {
		t.Fatalf("extracted C3 = %q, err %v", kpi, err)
	}
	if sentiment, err := f.GetCellValue(extractedSheet, "D2"); err != nil || sentiment != "positive" {
		t.Fatalf("extracted D2 = %q, err %v", sentiment, err)
	}
	if created, err := f.GetCellValue(extractedSheet, "E2"); err != nil || created != "2026-08-14" {
		t.Fatalf("extracted E2 = %q, err %v", created, err)
	}
}
