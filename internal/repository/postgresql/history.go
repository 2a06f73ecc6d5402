package postgresql

import (
	"context"

	"github.com/recyloop/gateway/internal/db"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/storage"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) storage.HistoryRepository {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_status_history (
            order_id, status, note, changed_at
        ) VALUES ($1, $2, $3, $4)
    `, entry.OrderID, entry.Status, entry.Note, entry.ChangedAt)
	return err
}

func (r *HistoryRepo) GetByOrderID(ctx context.Context, orderID string) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM order_status_history
        WHERE order_id = $1
        ORDER BY changed_at ASC, id ASC
    `, orderID)
	return entries, err
}
