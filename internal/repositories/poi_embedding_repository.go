package repositories

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
)

type PoiEmbeddingRepository interface {
	ListByVector(vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error)
	Create(embedding db_models.PoiEmbedding) error
}

type poiEmbeddingRepository struct {
	db *gorm.DB
}

func NewPoiEmbeddingRepository(db *gorm.DB) PoiEmbeddingRepository {
	return &poiEmbeddingRepository{db: db}
}

// ListByVector returns the embeddings nearest to the query vector by cosine
// distance, filtered to a minimum similarity so the preference retrieval
// path never pads the pool with noise.
func (r *poiEmbeddingRepository) ListByVector(vector pgvector.Vector, limit int) ([]db_models.PoiEmbedding, error) {
	if limit <= 0 {
		limit = 15
	}
	var results []db_models.PoiEmbedding

	query := `
        SELECT *, (1 - (embedding <=> $1)) AS similarity
        FROM poi_embeddings
        WHERE (1 - (embedding <=> $1)) > 0.7
        ORDER BY embedding <=> $1
        LIMIT $2
    `
	if err := r.db.Raw(query, vector.String(), limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *poiEmbeddingRepository) Create(embedding db_models.PoiEmbedding) error {
	return r.db.Create(&embedding).Error
}
