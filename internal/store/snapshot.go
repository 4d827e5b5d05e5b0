package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists exported conversation snapshots. The core's
// contract stays export/import only; durability is this collaborator's
// concern.
type SnapshotStore struct {
	db *pgxpool.Pool
}

func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save upserts the snapshot for a conversation; last write wins.
func (s *SnapshotStore) Save(ctx context.Context, conversationID string, snapshot []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO conversation_snapshots (conversation_id, snapshot, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (conversation_id) DO UPDATE SET snapshot = $2, updated_at = NOW()`,
		conversationID, snapshot,
	)
	return err
}

// Load returns the latest snapshot for a conversation.
func (s *SnapshotStore) Load(ctx context.Context, conversationID string) ([]byte, error) {
	var snapshot []byte
	err := s.db.QueryRow(ctx,
		`SELECT snapshot FROM conversation_snapshots WHERE conversation_id = $1`,
		conversationID,
	).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshot, nil
}
