package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infosight-worker/constant"
	"infosight-worker/dto"
	"infosight-worker/entities"
)

// ErrSubmissionClaimed means another invocation holds the processing claim
// for the submission, or the row is no longer in PROCESSING state.
var ErrSubmissionClaimed = errors.New("submission already claimed")

type SubmissionRepository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB

	FindSubmissionById(ctx context.Context, id uuid.UUID) (*entities.Submission, error)
	ClaimSubmission(ctx context.Context, id uuid.UUID, workerId string) error
	ReleaseSubmissionClaim(ctx context.Context, id uuid.UUID) error
	CompleteSubmission(ctx context.Context, id uuid.UUID, transcript string, insights dto.Insights, documentProcessed bool) error
	FailSubmission(ctx context.Context, id uuid.UUID, message string) error
	UpdateSubmissionInsights(ctx context.Context, id uuid.UUID, insights dto.Insights) error
	ListReprocessableSubmissions(ctx context.Context) ([]*entities.Submission, error)
	ListCompletedSubmissions(ctx context.Context) ([]*entities.Submission, error)

	CreateKPIDefinition(ctx context.Context, definition *entities.KPIDefinition) error
	FindKPIDefinitionById(ctx context.Context, id uuid.UUID) (*entities.KPIDefinition, error)
	ListKPIDefinitions(ctx context.Context, activeOnly bool) ([]*entities.KPIDefinition, error)
	UpdateKPIDefinition(ctx context.Context, definition *entities.KPIDefinition) error
	DeactivateKPIDefinition(ctx context.Context, id uuid.UUID) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) SubmissionRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.GetDB().Transaction(func(tx *gorm.DB) error {
		return callback(ctx)
	}, opts...)
}

func (r *repo) FindSubmissionById(ctx context.Context, id uuid.UUID) (*entities.Submission, error) {
	submission := &entities.Submission{}
	err := r.GetDB().WithContext(ctx).First(submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return submission, nil
}

// ClaimSubmission stamps a worker id onto the row with a compare-and-swap
// update. Zero affected rows means the claim is held elsewhere or the row
// already reached a terminal state.
func (r *repo) ClaimSubmission(ctx context.Context, id uuid.UUID, workerId string) error {
	now := time.Now()
	result := r.GetDB().WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ? AND status = ? AND claimed_by IS NULL", id, constant.SubmissionStatusProcessing).
		Updates(map[string]interface{}{
			"claimed_by": workerId,
			"claimed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionClaimed
	}
	return nil
}

func (r *repo) ReleaseSubmissionClaim(ctx context.Context, id uuid.UUID) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"claimed_by": nil,
			"claimed_at": nil,
		}).Error
}

func (r *repo) CompleteSubmission(ctx context.Context, id uuid.UUID, transcript string, insights dto.Insights, documentProcessed bool) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcript":         transcript,
			"key_points":         pq.StringArray(insights.KeyPoints),
			"extracted_kpis":     pq.StringArray(insights.ExtractedKpis),
			"sentiment":          insights.Sentiment,
			"ai_quotes":          pq.StringArray(insights.AiQuotes),
			"document_processed": documentProcessed,
			"status":             constant.SubmissionStatusCompleted,
			"processing_error":   nil,
			"updated_at":         time.Now(),
		}).Error
}

func (r *repo) FailSubmission(ctx context.Context, id uuid.UUID, message string) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           constant.SubmissionStatusFailed,
			"processing_error": message,
			"updated_at":       time.Now(),
		}).Error
}

func (r *repo) UpdateSubmissionInsights(ctx context.Context, id uuid.UUID, insights dto.Insights) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"key_points":     pq.StringArray(insights.KeyPoints),
			"extracted_kpis": pq.StringArray(insights.ExtractedKpis),
			"sentiment":      insights.Sentiment,
			"ai_quotes":      pq.StringArray(insights.AiQuotes),
			"updated_at":     time.Now(),
		}).Error
}

func (r *repo) ListReprocessableSubmissions(ctx context.Context) ([]*entities.Submission, error) {
	var submissions []*entities.Submission
	err := r.GetDB().WithContext(ctx).
		Where("status = ? AND transcript IS NOT NULL AND transcript <> ''", constant.SubmissionStatusCompleted).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repo) ListCompletedSubmissions(ctx context.Context) ([]*entities.Submission, error) {
	var submissions []*entities.Submission
	err := r.GetDB().WithContext(ctx).
		Where("status = ?", constant.SubmissionStatusCompleted).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repo) CreateKPIDefinition(ctx context.Context, definition *entities.KPIDefinition) error {
	return r.GetDB().WithContext(ctx).Create(definition).Error
}

func (r *repo) FindKPIDefinitionById(ctx context.Context, id uuid.UUID) (*entities.KPIDefinition, error) {
	definition := &entities.KPIDefinition{}
	err := r.GetDB().WithContext(ctx).First(definition, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return definition, nil
}

func (r *repo) ListKPIDefinitions(ctx context.Context, activeOnly bool) ([]*entities.KPIDefinition, error) {
	var definitions []*entities.KPIDefinition
	query := r.GetDB().WithContext(ctx).Order("category ASC, name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&definitions).Error; err != nil {
		return nil, err
	}
	return definitions, nil
}

func (r *repo) UpdateKPIDefinition(ctx context.Context, definition *entities.KPIDefinition) error {
	definition.UpdatedAt = time.Now()
	return r.GetDB().WithContext(ctx).Save(definition).Error
}

func (r *repo) DeactivateKPIDefinition(ctx context.Context, id uuid.UUID) error {
	result := r.GetDB().WithContext(ctx).Model(&entities.KPIDefinition{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
