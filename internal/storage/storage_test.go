package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/recyloop/gateway/internal/db"
	mock_database "github.com/recyloop/gateway/internal/db/mocks"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/repository/postgresql"
	"github.com/recyloop/gateway/internal/status"
	"github.com/recyloop/gateway/internal/storage"
)

func newMirror(mockDB *mock_database.MockDB) *storage.MirrorStorage {
	return storage.NewMirrorStorage(
		mockDB,
		postgresql.NewSnapshotRepo(mockDB),
		postgresql.NewHistoryRepo(mockDB),
		postgresql.NewOutboxTaskRepo(),
	)
}

func TestRecordTransition(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(mockDB *mock_database.MockDB, mockTx *mock_database.MockTx)
		expectedErr error
		errContains string
	}{
		{
			name: "updates an existing snapshot and appends history",
			setupMocks: func(mockDB *mock_database.MockDB, mockTx *mock_database.MockTx) {
				mockTx.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
					DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
						snap := dest.(*repository.OrderSnapshot)
						snap.OrderID = "order-1"
						snap.UserID = "user-1"
						snap.Status = "pending"
						return nil
					})
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Eq("order-1"), gomock.Eq("user-1"), gomock.Eq("assigntocourier"),
						gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Eq("order-1"), gomock.Eq("assigntocourier"),
						gomock.Eq("courier assigned"), gomock.Any()).
					Return(nil, nil)
				mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
			},
		},
		{
			name: "creates a snapshot for an unknown order",
			setupMocks: func(mockDB *mock_database.MockDB, mockTx *mock_database.MockTx) {
				mockTx.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
					Return(pgx.ErrNoRows)
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Eq("order-1"), gomock.Eq("user-1"), gomock.Eq("assigntocourier"),
						gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Eq("order-1"), gomock.Eq("assigntocourier"),
						gomock.Eq("courier assigned"), gomock.Any()).
					Return(nil, nil)
				mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
			},
		},
		{
			name: "refuses to move a terminal snapshot",
			setupMocks: func(mockDB *mock_database.MockDB, mockTx *mock_database.MockTx) {
				mockTx.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
					DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
						snap := dest.(*repository.OrderSnapshot)
						snap.OrderID = "order-1"
						snap.Status = "completed"
						return nil
					})
			},
			expectedErr: storage.ErrTerminalStatus,
		},
		{
			name: "rolls back when the history insert fails",
			setupMocks: func(mockDB *mock_database.MockDB, mockTx *mock_database.MockTx) {
				mockTx.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
					Return(pgx.ErrNoRows)
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Any(), gomock.Any(), gomock.Any(),
						gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				mockTx.EXPECT().
					Exec(gomock.Any(), gomock.Any(),
						gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("disk full"))
			},
			errContains: "append history",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := mock_database.NewMockDB(ctrl)
			mockTx := mock_database.NewMockTx(ctrl)
			mockDB.EXPECT().BeginTx(gomock.Any()).Return(db.Tx(mockTx), nil)
			mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			tc.setupMocks(mockDB, mockTx)

			mirror := newMirror(mockDB)
			err := mirror.RecordTransition(context.Background(), "order-1", "user-1", status.AssignToCourier, "courier assigned")

			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
			case tc.errContains != "":
				assert.ErrorContains(t, err, tc.errContains)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordTransitionBeginFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	mockDB.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("pool exhausted"))

	mirror := newMirror(mockDB)
	err := mirror.RecordTransition(context.Background(), "order-1", "user-1", status.Cancelled, "")
	assert.ErrorContains(t, err, "begin transaction")
}

func TestEnqueueAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)

	payload := json.RawMessage(`{"handler":"handleSubmitTransition"}`)
	mockDB.EXPECT().
		Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Eq(repository.TaskStatusCreated),
			gomock.Eq(payload), gomock.Eq("gateway-audit"),
			gomock.Any(), gomock.Any()).
		Return(nil, nil)

	mirror := newMirror(mockDB)
	require.NoError(t, mirror.EnqueueAudit(context.Background(), "gateway-audit", payload))
}
