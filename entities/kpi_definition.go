package entities

import (
	"time"

	"github.com/google/uuid"
)

type KPIDefinition struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"type:varchar(100)"`
	TargetValue float64   `json:"target_value" gorm:"type:numeric"`
	Unit        string    `json:"unit" gorm:"type:varchar(50)"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (KPIDefinition) TableName() string {
	return "kpi_definitions"
}
