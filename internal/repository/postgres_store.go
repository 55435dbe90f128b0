package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

const createActivitiesTable = `
CREATE TABLE IF NOT EXISTS activities (
	id       UUID PRIMARY KEY,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	document JSONB NOT NULL
)`

// PostgresStore keeps the collection in a Postgres table, one row per
// activity. It honours the same whole-collection contract as FileStore:
// Save replaces every row inside a single transaction.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the activities table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createActivitiesTable); err != nil {
		return fmt.Errorf("%w: create activities table: %w", ErrStorage, err)
	}
	return nil
}

// Load returns all activities ordered by their stored position.
func (s *PostgresStore) Load(ctx context.Context) ([]model.Activity, error) {
	rows, err := s.db.Query(ctx, `SELECT document FROM activities ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query activities: %w", ErrStorage, err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan activity: %w", ErrStorage, err)
		}
		var a model.Activity
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, fmt.Errorf("%w: decode activity: %w", ErrStorage, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate activities: %w", ErrStorage, err)
	}
	return activities, nil
}

// Save replaces the table contents with activities.
//
// The table is locked in EXCLUSIVE mode for the duration of the transaction,
// so two service instances sharing the database cannot interleave their
// delete/insert pairs. Readers are not blocked.
func (s *PostgresStore) Save(ctx context.Context, activities []model.Activity) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrStorage, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `LOCK TABLE activities IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("%w: lock activities: %w", ErrStorage, err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("%w: clear activities: %w", ErrStorage, err)
	}

	batch := &pgx.Batch{}
	for i, a := range activities {
		doc, mErr := json.Marshal(a)
		if mErr != nil {
			return fmt.Errorf("%w: encode activity %q: %w", ErrStorage, a.Name, mErr)
		}
		batch.Queue(
			`INSERT INTO activities (id, position, name, document) VALUES ($1::uuid, $2, $3, $4::jsonb)`,
			uuid.New().String(), i, a.Name, string(doc),
		)
	}
	if batch.Len() > 0 {
		if err = tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%w: insert activities: %w", ErrStorage, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", ErrStorage, err)
	}
	return nil
}
