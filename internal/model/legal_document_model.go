package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LegalDocument struct {
	Id              uuid.UUID             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId      string                `gorm:"type:varchar(255);uniqueIndex"`
	Content         string                `gorm:"type:text"`
	Metadata        datatypes.JSON        `gorm:"type:jsonb"`
	DenseEmbedding  pgvector.Vector       `gorm:"type:vector(384)"`       // bge-small-en-v1.5 uses 384 dimensions
	SparseEmbedding pgvector.SparseVector `gorm:"type:sparsevec(30522)"`  // bm42 over the bert-base vocab
	CreatedAt       time.Time             `gorm:"autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt        `gorm:"index"`
}

func (LegalDocument) TableName() string {
	return "legal_documents"
}
