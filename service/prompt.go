package service

import (
	"fmt"
	"strings"
)

const documentNotAvailable = "Document not available"

const analysisSystemPrompt = "You are a business analyst reviewing weekly employee reflections. " +
	"You must respond with a single JSON object and nothing else."

const analysisInstructions = `Analyze the submission above and respond with a JSON object containing exactly these fields:
- "key_points": an array of the most important points raised, as short strings
- "extracted_kpis": an array of strings in the form "Metric Name: Value" for every measurable figure mentioned
- "sentiment": exactly one of "positive", "neutral" or "negative"
- "ai_quotes": an array of short verbatim quotes worth highlighting

Respond with the JSON object only. Do not wrap it in markdown.`

// BuildAnalysisPrompt assembles the single text block sent to the analysis
// model: transcript, supporting document text (or a placeholder) and the
// submitter's notes, followed by the fixed instruction set.
func BuildAnalysisPrompt(transcript, documentText, notes string) string {
	if strings.TrimSpace(documentText) == "" {
		documentText = documentNotAvailable
	}
	if strings.TrimSpace(notes) == "" {
		notes = "None provided"
	}

	var b strings.Builder
	b.WriteString("== VIDEO TRANSCRIPT ==\n")
	b.WriteString(strings.TrimSpace(transcript))
	b.WriteString("\n\n== SUPPORTING DOCUMENT ==\n")
	b.WriteString(strings.TrimSpace(documentText))
	b.WriteString("\n\n== NOTES ==\n")
	b.WriteString(strings.TrimSpace(notes))
	b.WriteString(fmt.Sprintf("\n\n%s\n", analysisInstructions))
	return b.String()
}
