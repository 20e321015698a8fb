package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/tactics/internal/models"
)

const (
	upsertSnapshotSQL = `
		INSERT INTO board_snapshots (id, field_size, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET field_size = EXCLUDED.field_size,
		    payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`

	selectSnapshotSQL = `
		SELECT id, field_size, payload, created_at, updated_at
		FROM board_snapshots
		WHERE id = $1`

	deleteSnapshotSQL = `DELETE FROM board_snapshots WHERE id = $1`
)

// Postgres archives snapshots in the board_snapshots table.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Save(ctx context.Context, snap models.BoardSnapshot) error {
	if snap.ID == "" {
		return errors.New("snapshot id required")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	now := time.Now().UTC()
	created := snap.CreatedAt
	if created.IsZero() {
		created = now
	}
	if _, err := p.db.ExecContext(ctx, upsertSnapshotSQL, snap.ID, string(snap.FieldSize), string(payload), created, now); err != nil {
		return fmt.Errorf("upsert board %s: %w", snap.ID, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, id string) (models.BoardSnapshot, error) {
	var row models.BoardSnapshotRow
	err := p.db.GetContext(ctx, &row, selectSnapshotSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BoardSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.BoardSnapshot{}, fmt.Errorf("load board %s: %w", id, err)
	}
	return decode(row.Payload)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, deleteSnapshotSQL, id); err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	return nil
}
