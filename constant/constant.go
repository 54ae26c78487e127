package constant

type SubmissionStatus string

const (
	SubmissionStatusProcessing SubmissionStatus = "PROCESSING"
	SubmissionStatusCompleted  SubmissionStatus = "COMPLETED"
	SubmissionStatusFailed     SubmissionStatus = "FAILED"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// NormalizeSentiment maps arbitrary model output onto the sentiment enum.
// Anything unrecognized becomes neutral.
func NormalizeSentiment(value string) Sentiment {
	switch Sentiment(value) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(value)
	default:
		return SentimentNeutral
	}
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
