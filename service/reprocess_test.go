package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"infosight-worker/constant"
	"infosight-worker/entities"
)

func completedSubmission(kpis ...string) *entities.Submission {
	return &entities.Submission{
		ID:            uuid.New(),
		UserId:        uuid.New(),
		VideoPath:     "videos/u1/s1/reflection.mp4",
		Transcript:    "we shipped the beta",
		ExtractedKpis: pq.StringArray(kpis),
		Status:        constant.SubmissionStatusCompleted,
	}
}

func newTestReprocessService(repo *fakeRepo, llmClient *fakeLLM) *reprocessService {
	return &reprocessService{
		repo:  repo,
		llm:   llmClient,
		cfg:   testConfig(),
		delay: 0,
	}
}

func TestReprocessReplacesWhenNotFewerKPIs(t *testing.T) {
	submission := completedSubmission("Revenue: $5k")
	repo := &fakeRepo{reprocessable: []*entities.Submission{submission}}
	llmClient := &fakeLLM{jsonReply: `{"key_points":["a"],"extracted_kpis":["Revenue: $5k","Signups: 10"],"sentiment":"positive","ai_quotes":[]}`}

	summary, err := newTestReprocessService(repo, llmClient).ReprocessAll(context.Background())
	if err != nil {
		t.Fatalf("ReprocessAll returned error: %v", err)
	}
	if summary.Updated != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	updated, ok := repo.updated[submission.ID]
	if !ok {
		t.Fatal("expected insights update")
	}
	if len(updated.ExtractedKpis) != 2 {
		t.Fatalf("expected 2 KPIs stored, got %v", updated.ExtractedKpis)
	}
}

func TestReprocessKeepsExistingWhenFewerKPIs(t *testing.T) {
	submission := completedSubmission("Revenue: $5k", "Signups: 10", "Churn: 2%")
	repo := &fakeRepo{reprocessable: []*entities.Submission{submission}}
	llmClient := &fakeLLM{jsonReply: `{"key_points":["a"],"extracted_kpis":["Revenue: $5k"],"sentiment":"neutral","ai_quotes":[]}`}

	summary, err := newTestReprocessService(repo, llmClient).ReprocessAll(context.Background())
	if err != nil {
		t.Fatalf("ReprocessAll returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, ok := repo.updated[submission.ID]; ok {
		t.Fatal("existing KPI list must be kept")
	}
}

func TestReprocessEqualKPICountReplaces(t *testing.T) {
	submission := completedSubmission("Revenue: $5k")
	repo := &fakeRepo{reprocessable: []*entities.Submission{submission}}
	llmClient := &fakeLLM{jsonReply: `{"key_points":["a"],"extracted_kpis":["Revenue: $6k"],"sentiment":"positive","ai_quotes":[]}`}

	summary, err := newTestReprocessService(repo, llmClient).ReprocessAll(context.Background())
	if err != nil {
		t.Fatalf("ReprocessAll returned error: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("equal KPI count must replace, got %+v", summary)
	}
}

func TestReprocessRowFailureContinues(t *testing.T) {
	first := completedSubmission()
	second := completedSubmission()
	repo := &fakeRepo{
		reprocessable: []*entities.Submission{first, second},
		updateErrFor:  map[uuid.UUID]error{first.ID: errors.New("db write failed")},
	}
	llmClient := &fakeLLM{jsonReply: `{"key_points":["a"],"extracted_kpis":["X: 1"],"sentiment":"neutral","ai_quotes":[]}`}

	summary, err := newTestReprocessService(repo, llmClient).ReprocessAll(context.Background())
	if err != nil {
		t.Fatalf("ReprocessAll returned error: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 || summary.Updated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, ok := repo.updated[second.ID]; !ok {
		t.Fatal("second row must still be updated after first row failed")
	}
}

func TestReprocessUnparseableReplySkipsRow(t *testing.T) {
	repo := &fakeRepo{reprocessable: []*entities.Submission{completedSubmission()}}
	llmClient := &fakeLLM{jsonReply: "not json at all"}

	summary, err := newTestReprocessService(repo, llmClient).ReprocessAll(context.Background())
	if err != nil {
		t.Fatalf("ReprocessAll returned error: %v", err)
	}
	if summary.Failed != 1 || summary.Updated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
