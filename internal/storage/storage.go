package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recyloop/gateway/internal/db"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/status"
)

var ErrTerminalStatus = errors.New("order is in a terminal status")

type SnapshotRepository interface {
	Upsert(ctx context.Context, snap *repository.OrderSnapshot) error
	UpsertTx(ctx context.Context, tx db.Tx, snap *repository.OrderSnapshot) error
	GetByID(ctx context.Context, orderID string) (*repository.OrderSnapshot, error)
	GetByIDTx(ctx context.Context, tx db.Tx, orderID string) (*repository.OrderSnapshot, error)
	GetActiveSnapshots(ctx context.Context) ([]*repository.OrderSnapshot, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetByOrderID(ctx context.Context, orderID string) ([]*repository.HistoryEntry, error)
}

type OutboxTaskRepository interface {
	Create(ctx context.Context, database db.DB, task *repository.OutboxTask) error
	GetProcessableTasks(ctx context.Context, database db.DB, limit int) ([]*repository.OutboxTask, error)
	UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, password, role string) error
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

// MirrorStorage keeps the gateway's local mirror of order state: a snapshot
// row per order plus an append-only status history. The two are written in
// one transaction so the snapshot status always equals the last history
// entry.
type MirrorStorage struct {
	db           db.DB
	snapshotRepo SnapshotRepository
	historyRepo  HistoryRepository
	outboxRepo   OutboxTaskRepository
}

func NewMirrorStorage(database db.DB, snapshotRepo SnapshotRepository, historyRepo HistoryRepository, outboxRepo OutboxTaskRepository) *MirrorStorage {
	return &MirrorStorage{
		db:           database,
		snapshotRepo: snapshotRepo,
		historyRepo:  historyRepo,
		outboxRepo:   outboxRepo,
	}
}

// RecordTransition mirrors a backend-confirmed status change: it locks the
// snapshot row, writes the new status, and appends the matching history
// entry. Unknown orders get a fresh snapshot so the mirror self-heals.
// Terminal snapshots are never moved again.
func (s *MirrorStorage) RecordTransition(ctx context.Context, orderID, userID string, to status.Status, note string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()

	snap, err := s.snapshotRepo.GetByIDTx(ctx, tx, orderID)
	switch {
	case errors.Is(err, repository.ErrObjectNotFound):
		snap = &repository.OrderSnapshot{
			OrderID:   orderID,
			UserID:    userID,
			Status:    string(to),
			CreatedAt: now,
			UpdatedAt: now,
		}
	case err != nil:
		return fmt.Errorf("get snapshot: %w", err)
	default:
		if status.IsTerminal(status.Status(snap.Status)) {
			return ErrTerminalStatus
		}
		snap.Status = string(to)
		snap.UpdatedAt = now
	}

	if err := s.snapshotRepo.UpsertTx(ctx, tx, snap); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	entry := &repository.HistoryEntry{
		OrderID:   orderID,
		Status:    string(to),
		Note:      note,
		ChangedAt: now,
	}
	if err := s.historyRepo.CreateTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *MirrorStorage) GetSnapshot(ctx context.Context, orderID string) (*repository.OrderSnapshot, error) {
	return s.snapshotRepo.GetByID(ctx, orderID)
}

func (s *MirrorStorage) GetOrderHistory(ctx context.Context, orderID string) ([]*repository.HistoryEntry, error) {
	return s.historyRepo.GetByOrderID(ctx, orderID)
}

func (s *MirrorStorage) GetActiveSnapshots(ctx context.Context) ([]*repository.OrderSnapshot, error) {
	return s.snapshotRepo.GetActiveSnapshots(ctx)
}

// EnqueueAudit stores an audit payload as an outbox task; the publisher
// picks it up and delivers it to Kafka.
func (s *MirrorStorage) EnqueueAudit(ctx context.Context, topic string, payload json.RawMessage) error {
	task := &repository.OutboxTask{
		Topic:   topic,
		Payload: payload,
	}
	return s.outboxRepo.Create(ctx, s.db, task)
}
