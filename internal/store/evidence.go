package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rostrum-ai/rostrum/internal/domain"
)

// EvidenceStore keeps embedded evidence passages for retrieval-augmented
// debate context.
type EvidenceStore struct {
	db *pgxpool.Pool
}

func NewEvidenceStore(db *pgxpool.Pool) *EvidenceStore {
	return &EvidenceStore{db: db}
}

func (s *EvidenceStore) Create(ctx context.Context, e *domain.Evidence) error {
	if len(e.Embedding) == 0 {
		return fmt.Errorf("evidence embedding is required")
	}
	vec := pgvector.NewVector(e.Embedding)
	return s.db.QueryRow(ctx,
		`INSERT INTO evidence (content, source, embedding)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		e.Content, e.Source, vec,
	).Scan(&e.ID)
}

// Search returns the topK passages nearest to the query embedding by
// cosine distance, most similar first.
func (s *EvidenceStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.EvidenceWithScore, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT id, content, source, 1 - (embedding <=> $1) AS score
		 FROM evidence
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.EvidenceWithScore
	for rows.Next() {
		var e domain.EvidenceWithScore
		if err := rows.Scan(&e.ID, &e.Content, &e.Source, &e.Score); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
