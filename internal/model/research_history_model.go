package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResearchHistory struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Question         string         `gorm:"type:text;not null"`
	Answer           string         `gorm:"type:text"`
	SubQuestions     datatypes.JSON `gorm:"type:jsonb"`
	DocumentMetadata datatypes.JSON `gorm:"type:jsonb"`
	ProcessingTime   float64
	CacheHit         bool
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

func (ResearchHistory) TableName() string {
	return "research_histories"
}
