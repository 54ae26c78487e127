package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"infosight-worker/constant"
)

type Submission struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_submissions_user_id"`

	VideoPath     string  `json:"video_path" gorm:"type:varchar(500);not null"`
	VideoName     string  `json:"video_name" gorm:"type:varchar(255)"`
	VideoSize     *int64  `json:"video_size" gorm:"type:bigint"`
	QuestionIndex int     `json:"question_index" gorm:"type:integer;default:0"`
	DocumentPath  *string `json:"document_path" gorm:"type:varchar(500)"`
	DocumentName  *string `json:"document_name" gorm:"type:varchar(255)"`
	Notes         string  `json:"notes" gorm:"type:text"`

	Transcript        string         `json:"transcript" gorm:"type:text"`
	KeyPoints         pq.StringArray `json:"key_points" gorm:"type:text[]"`
	ExtractedKpis     pq.StringArray `json:"extracted_kpis" gorm:"type:text[]"`
	Sentiment         string         `json:"sentiment" gorm:"type:varchar(20)"`
	AiQuotes          pq.StringArray `json:"ai_quotes" gorm:"type:text[]"`
	DocumentProcessed bool           `json:"document_processed" gorm:"default:false"`

	Status          constant.SubmissionStatus `json:"status" gorm:"type:varchar(20);not null;default:'PROCESSING';index:idx_submissions_status"`
	ProcessingError *string                   `json:"processing_error" gorm:"type:text"`
	ClaimedBy       *string                   `json:"claimed_by" gorm:"type:varchar(100)"`
	ClaimedAt       *time.Time                `json:"claimed_at" gorm:"type:timestamptz"`

	CreatedAt time.Time `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Submission) TableName() string {
	return "submissions"
}
