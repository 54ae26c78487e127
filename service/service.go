package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"infosight-worker/config"
	"infosight-worker/constant"
	"infosight-worker/dto"
	"infosight-worker/pkg/llm"
	"infosight-worker/pkg/storage"
	"infosight-worker/pkg/transcribe"
	"infosight-worker/repository"
)

// ErrMissingVideo means the submission row has no usable video reference.
// The pipeline fails fast on it before touching storage or any API.
var ErrMissingVideo = errors.New("submission has no video reference")

type Service interface {
	Process(ctx context.Context, message dto.ProcessMessage) (*dto.ProcessResult, error)
}

type service struct {
	repo        repository.SubmissionRepository
	store       storage.ObjectStore
	transcriber transcribe.Transcriber
	llm         llm.Client
	cfg         *config.Config
}

func NewService(
	repo repository.SubmissionRepository,
	store storage.ObjectStore,
	transcriber transcribe.Transcriber,
	llmClient llm.Client,
	cfg *config.Config,
) Service {
	return &service{
		repo:        repo,
		store:       store,
		transcriber: transcriber,
		llm:         llmClient,
		cfg:         cfg,
	}
}

// Process runs one submission through the pipeline: claim, download video,
// transcribe, optional document extraction, analysis, one completing update,
// best-effort blob cleanup. Stages run strictly in sequence; nothing is
// retried.
func (s service) Process(ctx context.Context, message dto.ProcessMessage) (result *dto.ProcessResult, err error) {
	zerolog.Ctx(ctx).Info().Str("submission_id", message.SubmissionId.String()).Msg("processing submission")

	submission, err := s.repo.FindSubmissionById(ctx, message.SubmissionId)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to find submission by id")
		return nil, err
	}

	if strings.TrimSpace(submission.VideoPath) == "" {
		err = ErrMissingVideo
		if updateErr := s.repo.FailSubmission(ctx, submission.ID, err.Error()); updateErr != nil {
			zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update submission status")
		}
		return nil, err
	}

	if err = s.repo.ClaimSubmission(ctx, submission.ID, s.cfg.Server.WorkerId); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("submission_id", submission.ID.String()).Msg("submission not claimable")
		return nil, err
	}

	defer func() {
		if err != nil {
			if updateErr := s.repo.FailSubmission(ctx, submission.ID, err.Error()); updateErr != nil {
				zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update submission status")
				if releaseErr := s.repo.ReleaseSubmissionClaim(ctx, submission.ID); releaseErr != nil {
					zerolog.Ctx(ctx).Error().Err(releaseErr).Msg("failed to release submission claim")
				}
			}
		}
	}()

	tempDir := filepath.Join("temp", submission.ID.String())
	defer os.RemoveAll(tempDir)

	inputDir := filepath.Join(tempDir, "input")
	if err = os.MkdirAll(inputDir, os.ModePerm); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create input directory")
		return nil, err
	}

	videoFile := filepath.Join(inputDir, filepath.Base(submission.VideoPath))
	zerolog.Ctx(ctx).Info().Str("video_path", submission.VideoPath).Msg("downloading video")
	if err = s.store.Download(ctx, submission.VideoPath, videoFile); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to download video")
		err = fmt.Errorf("download video: %w", err)
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Msg("transcribing video")
	transcribeCtx, cancelTranscribe := context.WithTimeout(ctx, s.cfg.Transcribe.Timeout)
	transcript, transcribeErr := s.transcriber.Transcribe(transcribeCtx, videoFile)
	cancelTranscribe()
	if transcribeErr != nil {
		zerolog.Ctx(ctx).Error().Err(transcribeErr).Msg("failed to transcribe video")
		err = fmt.Errorf("transcribe video: %w", transcribeErr)
		return nil, err
	}

	documentText := ""
	documentProcessed := false
	if submission.DocumentPath != nil && strings.TrimSpace(*submission.DocumentPath) != "" {
		extracted := s.extractDocument(ctx, *submission.DocumentPath, documentName(submission.DocumentName, *submission.DocumentPath))
		documentText = extracted.Text
		documentProcessed = extracted.OK
	}

	prompt := BuildAnalysisPrompt(transcript, documentText, submission.Notes)

	zerolog.Ctx(ctx).Info().Msg("extracting insights")
	analyzeCtx, cancelAnalyze := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
	content, analyzeErr := s.llm.CompleteJSON(analyzeCtx, analysisSystemPrompt, prompt)
	cancelAnalyze()
	if analyzeErr != nil {
		zerolog.Ctx(ctx).Error().Err(analyzeErr).Msg("failed to extract insights")
		err = fmt.Errorf("extract insights: %w", analyzeErr)
		return nil, err
	}

	insights := decodeInsights(ctx, content)

	if err = s.repo.CompleteSubmission(ctx, submission.ID, transcript, insights, documentProcessed); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to persist submission results")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Msg("deleting video object")
	if removeErr := s.store.Remove(ctx, submission.VideoPath); removeErr != nil {
		zerolog.Ctx(ctx).Warn().Err(removeErr).Msg("failed to delete video object")
	}

	zerolog.Ctx(ctx).Info().
		Str("submission_id", submission.ID.String()).
		Int("kpis", len(insights.ExtractedKpis)).
		Msg("submission completed")

	documentTextLength := 0
	if documentProcessed {
		documentTextLength = len(documentText)
	}
	return &dto.ProcessResult{
		KpisExtracted:      len(insights.ExtractedKpis),
		TranscriptLength:   len(transcript),
		DocumentProcessed:  documentProcessed,
		DocumentTextLength: documentTextLength,
	}, nil
}

// extractDocument never returns an error: any failure collapses into a
// placeholder result so the analysis stage always runs.
func (s service) extractDocument(ctx context.Context, objectPath, name string) ExtractResult {
	data, err := s.store.FetchBytes(ctx, objectPath)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("document_path", objectPath).Msg("failed to download document")
		return ExtractResult{Text: extractionPlaceholder, OK: false}
	}

	mimeType := DetectMimeType(name)
	extractor := ExtractorFor(mimeType, s.llm)
	return extractor.Extract(ctx, name, data)
}

// decodeInsights parses the analysis reply, falling back to defaults when
// the model produced something other than the expected JSON shape.
func decodeInsights(ctx context.Context, content string) dto.Insights {
	insights := dto.Insights{}
	if err := llm.DecodeJSON(content, &insights); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("analysis reply was not valid JSON, using defaults")
		return dto.DefaultInsights()
	}
	return normalizeInsights(insights)
}

func normalizeInsights(insights dto.Insights) dto.Insights {
	if insights.KeyPoints == nil {
		insights.KeyPoints = []string{}
	}
	if insights.ExtractedKpis == nil {
		insights.ExtractedKpis = []string{}
	}
	if insights.AiQuotes == nil {
		insights.AiQuotes = []string{}
	}
	insights.Sentiment = string(constant.NormalizeSentiment(insights.Sentiment))
	return insights
}

func documentName(name *string, objectPath string) string {
	if name != nil && strings.TrimSpace(*name) != "" {
		return *name
	}
	return filepath.Base(objectPath)
}
