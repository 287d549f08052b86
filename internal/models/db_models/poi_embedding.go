package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PoiEmbedding struct {
	BaseModel
	PoiID     uuid.UUID
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	Tags      pq.StringArray  `gorm:"type:text[]"`
}
