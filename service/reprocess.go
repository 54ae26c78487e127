package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"infosight-worker/config"
	"infosight-worker/dto"
	"infosight-worker/pkg/llm"
	"infosight-worker/repository"
)

type ReprocessService interface {
	ReprocessAll(ctx context.Context) (*dto.ReprocessSummary, error)
}

type reprocessService struct {
	repo repository.SubmissionRepository
	llm  llm.Client
	cfg  *config.Config
	// pacing between rows keeps the analysis API under its rate limit
	delay time.Duration
}

func NewReprocessService(repo repository.SubmissionRepository, llmClient llm.Client, cfg *config.Config) ReprocessService {
	return &reprocessService{
		repo:  repo,
		llm:   llmClient,
		cfg:   cfg,
		delay: time.Second,
	}
}

// ReprocessAll re-runs insight extraction over every completed submission
// that still has a transcript, one row at a time. A row's stored KPI list is
// only replaced when the fresh result has at least as many entries. Row
// failures are logged and skipped.
func (s *reprocessService) ReprocessAll(ctx context.Context) (*dto.ReprocessSummary, error) {
	submissions, err := s.repo.ListReprocessableSubmissions(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list reprocessable submissions")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int("count", len(submissions)).Msg("reprocessing submissions")

	summary := &dto.ReprocessSummary{}
	for i, submission := range submissions {
		if i > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
		summary.Processed++

		prompt := BuildAnalysisPrompt(submission.Transcript, "", submission.Notes)
		analyzeCtx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
		content, analyzeErr := s.llm.CompleteJSON(analyzeCtx, analysisSystemPrompt, prompt)
		cancel()
		if analyzeErr != nil {
			zerolog.Ctx(ctx).Warn().Err(analyzeErr).Str("submission_id", submission.ID.String()).Msg("reprocess analysis failed, skipping row")
			summary.Failed++
			continue
		}

		insights := dto.Insights{}
		if decodeErr := llm.DecodeJSON(content, &insights); decodeErr != nil {
			zerolog.Ctx(ctx).Warn().Err(decodeErr).Str("submission_id", submission.ID.String()).Msg("reprocess reply unparseable, skipping row")
			summary.Failed++
			continue
		}
		insights = normalizeInsights(insights)

		if len(insights.ExtractedKpis) < len(submission.ExtractedKpis) {
			zerolog.Ctx(ctx).Info().
				Str("submission_id", submission.ID.String()).
				Int("existing", len(submission.ExtractedKpis)).
				Int("fresh", len(insights.ExtractedKpis)).
				Msg("fresh result has fewer KPIs, keeping existing data")
			summary.Skipped++
			continue
		}

		if updateErr := s.repo.UpdateSubmissionInsights(ctx, submission.ID, insights); updateErr != nil {
			zerolog.Ctx(ctx).Warn().Err(updateErr).Str("submission_id", submission.ID.String()).Msg("failed to update insights, skipping row")
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	return summary, nil
}
