package dto

import "github.com/google/uuid"

type ProcessMessage struct {
	SubmissionId uuid.UUID `json:"submissionId"`
}

type ProcessRequest struct {
	SubmissionId uuid.UUID `json:"submissionId" binding:"required"`
}

// Insights is the fixed shape the analysis model is instructed to return.
type Insights struct {
	KeyPoints     []string `json:"key_points"`
	ExtractedKpis []string `json:"extracted_kpis"`
	Sentiment     string   `json:"sentiment"`
	AiQuotes      []string `json:"ai_quotes"`
}

// DefaultInsights is the fallback used when the analysis reply cannot be
// parsed. The pipeline completes with these values rather than failing.
func DefaultInsights() Insights {
	return Insights{
		KeyPoints:     []string{"processed"},
		ExtractedKpis: []string{},
		Sentiment:     "neutral",
		AiQuotes:      []string{},
	}
}

type ProcessResult struct {
	KpisExtracted      int  `json:"kpisExtracted"`
	TranscriptLength   int  `json:"transcriptLength"`
	DocumentProcessed  bool `json:"documentProcessed"`
	DocumentTextLength int  `json:"documentContentLength"`
}

type ProcessResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	KpisExtracted         int    `json:"kpisExtracted"`
	VideoProcessed        bool   `json:"videoProcessed"`
	TranscriptLength      int    `json:"transcriptLength"`
	DocumentProcessed     bool   `json:"documentProcessed"`
	DocumentContentLength int    `json:"documentContentLength"`
}

type ReprocessSummary struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type KPIDefinitionRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	TargetValue float64 `json:"targetValue"`
	Unit        string  `json:"unit"`
	Active      *bool   `json:"active"`
}
