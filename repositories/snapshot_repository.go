package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pubgscore/tournament-service/models"
)

var ErrSnapshotCorrupted = errors.New("persisted snapshot is corrupted")

// Снапшот хранится одной строкой JSONB: состояние маленькое и атомарная
// замена целиком проще и надёжнее, чем нормализованная схема.
const snapshotRowID = 1

// SnapshotRepository — персистентное хранилище снапшотов турнира.
// Load возвращает (nil, nil), если снапшота нет.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Clear(ctx context.Context) error
}

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

// EnsureSchema создаёт таблицу снапшотов, если её ещё нет.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS tournament_snapshots (
			id         INT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO tournament_snapshots (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, snapshotRowID, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	query := `SELECT data FROM tournament_snapshots WHERE id = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, snapshotRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		// Нечитаемый снапшот не должен ронять сервис: сообщаем наверх,
		// вызывающий решает, стартовать ли с чистого состояния.
		return nil, fmt.Errorf("%w: %w", ErrSnapshotCorrupted, err)
	}
	return snapshot, nil
}

func (r *postgresSnapshotRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM tournament_snapshots WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, snapshotRowID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
