package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/recyloop/gateway/internal/db"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/storage"
)

type SnapshotRepo struct {
	db db.DB
}

func NewSnapshotRepo(db db.DB) storage.SnapshotRepository {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) Upsert(ctx context.Context, snap *repository.OrderSnapshot) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO order_snapshots (
            order_id, user_id, status, courier_id, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (order_id) DO UPDATE SET
            status = EXCLUDED.status,
            courier_id = EXCLUDED.courier_id,
            updated_at = EXCLUDED.updated_at
    `, snap.OrderID, snap.UserID, snap.Status, snap.CourierID, snap.CreatedAt, snap.UpdatedAt)
	return err
}

func (r *SnapshotRepo) UpsertTx(ctx context.Context, tx db.Tx, snap *repository.OrderSnapshot) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_snapshots (
            order_id, user_id, status, courier_id, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (order_id) DO UPDATE SET
            status = EXCLUDED.status,
            courier_id = EXCLUDED.courier_id,
            updated_at = EXCLUDED.updated_at
    `, snap.OrderID, snap.UserID, snap.Status, snap.CourierID, snap.CreatedAt, snap.UpdatedAt)
	return err
}

func (r *SnapshotRepo) GetByID(ctx context.Context, orderID string) (*repository.OrderSnapshot, error) {
	var snap repository.OrderSnapshot
	err := r.db.Get(ctx, &snap, "SELECT * FROM order_snapshots WHERE order_id = $1", orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &snap, nil
}

func (r *SnapshotRepo) GetByIDTx(ctx context.Context, tx db.Tx, orderID string) (*repository.OrderSnapshot, error) {
	var snap repository.OrderSnapshot
	err := tx.Get(ctx, &snap, "SELECT * FROM order_snapshots WHERE order_id = $1 FOR UPDATE", orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &snap, nil
}

func (r *SnapshotRepo) GetActiveSnapshots(ctx context.Context) ([]*repository.OrderSnapshot, error) {
	query := `
        SELECT * FROM order_snapshots
        WHERE status NOT IN ('completed', 'cancelled')
        ORDER BY created_at ASC
    `
	var snapshots []*repository.OrderSnapshot
	err := r.db.Select(ctx, &snapshots, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active order snapshots: %w", err)
	}
	return snapshots, nil
}
