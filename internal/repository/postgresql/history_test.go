package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/recyloop/gateway/internal/db/mocks"
	"github.com/recyloop/gateway/internal/repository"
)

func TestHistoryRepoCreateTx(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &repository.HistoryEntry{
		OrderID:   "order-1",
		Status:    "collected",
		Note:      "picked up at the door",
		ChangedAt: now,
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq("order-1"), gomock.Eq("collected"),
				gomock.Eq("picked up at the door"), gomock.Eq(now)).
			Return(nil, nil)

		repo := NewHistoryRepo(mockDB)
		assert.NoError(t, repo.CreateTx(context.Background(), mockTx, entry))
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("constraint violation"))

		repo := NewHistoryRepo(mockDB)
		assert.EqualError(t, repo.CreateTx(context.Background(), mockTx, entry), "constraint violation")
	})
}

func TestHistoryRepoGetByOrderID(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns entries in change order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				entries := dest.(*[]*repository.HistoryEntry)
				*entries = []*repository.HistoryEntry{
					{ID: 1, OrderID: "order-1", Status: "pending", ChangedAt: base},
					{ID: 2, OrderID: "order-1", Status: "assigntocourier", ChangedAt: base.Add(time.Hour)},
				}
				return nil
			})

		repo := NewHistoryRepo(mockDB)
		entries, err := repo.GetByOrderID(context.Background(), "order-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "pending", entries[0].Status)
		assert.Equal(t, "assigntocourier", entries[1].Status)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-1")).
			Return(errors.New("connection refused"))

		repo := NewHistoryRepo(mockDB)
		entries, err := repo.GetByOrderID(context.Background(), "order-1")
		assert.Nil(t, entries)
		assert.EqualError(t, err, "connection refused")
	})
}
