package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/inventory"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/points"
	"github.com/recyloop/gateway/internal/repository"
	mock_server "github.com/recyloop/gateway/internal/server/mocks"
	"github.com/recyloop/gateway/internal/status"
)

type testServer struct {
	server  *Server
	mirror  *mock_server.MockMirror
	backend *mock_server.MockBackend
	users   *mock_server.MockUserRepo
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)

	mirror := mock_server.NewMockMirror(ctrl)
	backend := mock_server.NewMockBackend(ctrl)
	users := mock_server.NewMockUserRepo(ctrl)

	batchCache := cache.NewBatchCache()
	detailCache := cache.NewDetailCache()
	snapshots := cache.NewSnapshotCache(nil)
	checker := inventory.NewChecker(batchCache, detailCache, zap.NewNop())

	srv := New(mirror, backend, users, checker, batchCache, detailCache, snapshots,
		Config{JWTSecret: "test-secret", AuditTopic: "audit"}, zap.NewNop())

	return &testServer{server: srv, mirror: mirror, backend: backend, users: users}
}

func authedRequest(method, target string, body []byte, userID string, role status.Role) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), userCtxKey, userID)
	ctx = context.WithValue(ctx, roleCtxKey, string(role))
	return req.WithContext(ctx)
}

func TestHandleSubmitTransition(t *testing.T) {
	tests := []struct {
		name           string
		role           status.Role
		currentStatus  string
		requestBody    map[string]interface{}
		setupMocks     func(ts *testServer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "customer cancels pending order",
			role:          status.RoleCustomer,
			currentStatus: "pending",
			requestBody:   map[string]interface{}{"status": "cancelled", "note": "changed my mind"},
			setupMocks: func(ts *testServer) {
				ts.backend.EXPECT().
					CancelOrder(gomock.Any(), "order-1", "changed my mind").
					Return(nil)
				ts.mirror.EXPECT().
					RecordTransition(gomock.Any(), "order-1", "user-1", status.Cancelled, "changed my mind").
					Return(nil)
				ts.mirror.EXPECT().
					GetSnapshot(gomock.Any(), "order-1").
					Return(&repository.OrderSnapshot{OrderID: "order-1", Status: "cancelled"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Order status updated successfully","status":"cancelled"}`,
		},
		{
			name:          "buyer completes from assigntocourier",
			role:          status.RoleBuyer,
			currentStatus: "assigntocourier",
			requestBody:   map[string]interface{}{"status": "completed"},
			setupMocks: func(ts *testServer) {
				ts.backend.EXPECT().
					UpdateOrderStatus(gomock.Any(), "order-1", status.Completed, "").
					Return(nil)
				ts.mirror.EXPECT().
					RecordTransition(gomock.Any(), "order-1", "user-1", status.Completed, "").
					Return(nil)
				ts.mirror.EXPECT().
					GetSnapshot(gomock.Any(), "order-1").
					Return(&repository.OrderSnapshot{OrderID: "order-1", Status: "completed"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Order status updated successfully","status":"completed"}`,
		},
		{
			name:           "admin cannot skip collected",
			role:           status.RoleAdmin,
			currentStatus:  "assigntocourier",
			requestBody:    map[string]interface{}{"status": "collected"},
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"Transition from 'assigntocourier' to 'collected' is not allowed for role 'admin'"}`,
		},
		{
			name:          "synonym target is normalized",
			role:          status.RoleCustomer,
			currentStatus: "pending",
			requestBody:   map[string]interface{}{"status": "canceled"},
			setupMocks: func(ts *testServer) {
				ts.backend.EXPECT().
					CancelOrder(gomock.Any(), "order-1", "").
					Return(nil)
				ts.mirror.EXPECT().
					RecordTransition(gomock.Any(), "order-1", "user-1", status.Cancelled, "").
					Return(nil)
				ts.mirror.EXPECT().
					GetSnapshot(gomock.Any(), "order-1").
					Return(&repository.OrderSnapshot{OrderID: "order-1", Status: "cancelled"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Order status updated successfully","status":"cancelled"}`,
		},
		{
			name:          "backend rejects transition",
			role:          status.RoleAdmin,
			currentStatus: "collected",
			requestBody:   map[string]interface{}{"status": "completed"},
			setupMocks: func(ts *testServer) {
				ts.backend.EXPECT().
					UpdateOrderStatus(gomock.Any(), "order-1", status.Completed, "").
					Return(errors.New("backend says no"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"Backend rejected transition: backend says no"}`,
		},
		{
			name:           "invalid request body",
			role:           status.RoleCustomer,
			currentStatus:  "pending",
			requestBody:    map[string]interface{}{},
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.server.snapshots.Set(&repository.OrderSnapshot{OrderID: "order-1", Status: tc.currentStatus})
			tc.setupMocks(ts)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req := authedRequest(http.MethodPost, "/orders/order-1/status", body, "user-1", tc.role)
			req = mux.SetURLVars(req, map[string]string{"id": "order-1"})

			rr := httptest.NewRecorder()
			ts.server.handleSubmitTransition(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleSubmitTransitionFallsBackToBackendStatus(t *testing.T) {
	ts := newTestServer(t)

	// Nothing cached, nothing mirrored: the current status comes from the
	// backend order document.
	ts.mirror.EXPECT().
		GetSnapshot(gomock.Any(), "order-9").
		Return(nil, repository.ErrObjectNotFound)
	ts.backend.EXPECT().
		GetOrder(gomock.Any(), "order-9").
		Return(&market.Order{ID: "order-9", Status: status.Collected}, nil)
	ts.backend.EXPECT().
		UpdateOrderStatus(gomock.Any(), "order-9", status.Completed, "").
		Return(nil)
	ts.mirror.EXPECT().
		RecordTransition(gomock.Any(), "order-9", "user-1", status.Completed, "").
		Return(nil)
	ts.mirror.EXPECT().
		GetSnapshot(gomock.Any(), "order-9").
		Return(&repository.OrderSnapshot{OrderID: "order-9", Status: "completed"}, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	req := authedRequest(http.MethodPost, "/orders/order-9/status", body, "user-1", status.RoleDelivery)
	req = mux.SetURLVars(req, map[string]string{"id": "order-9"})

	rr := httptest.NewRecorder()
	ts.server.handleSubmitTransition(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleListOrders(t *testing.T) {
	ts := newTestServer(t)

	ts.backend.EXPECT().
		ListOrders(gomock.Any(), "user-1").
		Return([]market.Order{
			{ID: "order-1", Status: status.Pending},
			{ID: "order-2", Status: status.Completed},
		}, nil)

	req := authedRequest(http.MethodGet, "/orders", nil, "user-1", status.RoleBuyer)
	rr := httptest.NewRecorder()
	ts.server.handleListOrders(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Orders []struct {
			ID                 string   `json:"id"`
			AllowedTransitions []string `json:"allowed_transitions"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, []string{"assigntocourier", "cancelled"}, resp.Orders[0].AllowedTransitions)
	assert.Empty(t, resp.Orders[1].AllowedTransitions)
}

func TestHandleGetOrderServesMirrorWhenBackendDown(t *testing.T) {
	ts := newTestServer(t)

	ts.backend.EXPECT().
		GetOrder(gomock.Any(), "order-1").
		Return(nil, errors.New("connection refused"))
	ts.server.snapshots.Set(&repository.OrderSnapshot{OrderID: "order-1", UserID: "user-1", Status: "collected"})

	req := authedRequest(http.MethodGet, "/orders/order-1", nil, "user-1", status.RoleAdmin)
	req = mux.SetURLVars(req, map[string]string{"id": "order-1"})

	rr := httptest.NewRecorder()
	ts.server.handleGetOrder(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"stale":true`)
	assert.Contains(t, rr.Body.String(), `"status":"collected"`)
}

func TestHandleGetOrderNotFoundAnywhere(t *testing.T) {
	ts := newTestServer(t)

	ts.backend.EXPECT().
		GetOrder(gomock.Any(), "ghost").
		Return(nil, errors.New("connection refused"))
	ts.mirror.EXPECT().
		GetSnapshot(gomock.Any(), "ghost").
		Return(nil, repository.ErrObjectNotFound)

	req := authedRequest(http.MethodGet, "/orders/ghost", nil, "user-1", status.RoleCustomer)
	req = mux.SetURLVars(req, map[string]string{"id": "ghost"})

	rr := httptest.NewRecorder()
	ts.server.handleGetOrder(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, rr.Body.String())
}

func TestHandleListTransitions(t *testing.T) {
	ts := newTestServer(t)
	ts.server.snapshots.Set(&repository.OrderSnapshot{OrderID: "order-1", Status: "pending"})

	req := authedRequest(http.MethodGet, "/orders/order-1/transitions", nil, "user-1", status.RoleBuyer)
	req = mux.SetURLVars(req, map[string]string{"id": "order-1"})

	rr := httptest.NewRecorder()
	ts.server.handleListTransitions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"current":"pending","allowed":["assigntocourier","cancelled"]}`, rr.Body.String())
}

func TestHandleCheckAvailability(t *testing.T) {
	ts := newTestServer(t)

	q := 8.0
	items := []string{"item-1"}
	ts.server.batchCache.Set(cache.BatchKey(items, status.RoleBuyer), []market.ItemStock{
		{ItemID: "item-1", Name: market.ItemName{En: "Mixed Paper"}, Quantity: &q},
	})

	body, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": "item-1", "name": map[string]string{"en": "Mixed Paper"}, "quantity": 10},
		},
	})

	req := authedRequest(http.MethodPost, "/items/availability", body, "user-1", status.RoleBuyer)
	rr := httptest.NewRecorder()
	ts.server.handleCheckAvailability(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AllAvailable bool `json:"all_available"`
		Results      map[string]struct {
			Available    bool    `json:"available"`
			AvailableQty float64 `json:"available_qty"`
			Source       string  `json:"source"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.AllAvailable)
	assert.False(t, resp.Results["item-1"].Available)
	assert.Equal(t, "batch", resp.Results["item-1"].Source)
	assert.Equal(t, 8.0, resp.Results["item-1"].AvailableQty)
}

func TestHandleRefreshAvailability(t *testing.T) {
	ts := newTestServer(t)

	q := 4.0
	ts.backend.EXPECT().
		GetItemsByID(gomock.Any(), []string{"item-1", "item-2"}, status.RoleBuyer).
		Return([]market.ItemStock{
			{ItemID: "item-1", Name: market.ItemName{En: "Copper"}, Quantity: &q},
			{ItemID: "item-2", Name: market.ItemName{En: "Glass"}},
		}, nil)

	body, _ := json.Marshal(map[string]interface{}{"item_ids": []string{"item-1", "item-2"}})
	req := authedRequest(http.MethodPost, "/items/refresh", body, "user-1", status.RoleBuyer)
	rr := httptest.NewRecorder()
	ts.server.handleRefreshAvailability(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	stock, found := ts.server.batchCache.Get(cache.BatchKey([]string{"item-2", "item-1"}, status.RoleBuyer), "item-1")
	require.True(t, found)
	assert.Equal(t, 4.0, *stock.Quantity)

	_, found = ts.server.detailCache.Get(market.ItemName{En: "copper"})
	assert.True(t, found)
}

func TestHandleUserPoints(t *testing.T) {
	ts := newTestServer(t)

	ts.backend.EXPECT().
		GetUserPoints(gomock.Any(), "user-1", 1, 20).
		Return(&points.Summary{
			UserID: "user-1",
			Total:  60,
			Entries: []points.LedgerEntry{
				{Reason: "Cashback reward", Points: 50},
				{Reason: "Referral bonus", Points: 20},
				{Reason: "Voucher redemption", Points: -10},
			},
		}, nil)

	req := authedRequest(http.MethodGet, "/users/user-1/points", nil, "user-1", status.RoleCustomer)
	req = mux.SetURLVars(req, map[string]string{"id": "user-1"})

	rr := httptest.NewRecorder()
	ts.server.handleUserPoints(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Total   float64 `json:"total"`
		Entries []struct {
			Reason string  `json:"reason"`
			Points float64 `json:"points"`
			Tag    string  `json:"tag"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 60.0, resp.Total)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "cashback", resp.Entries[0].Tag)
	assert.Equal(t, "bonus", resp.Entries[1].Tag)
	assert.Equal(t, "deduct", resp.Entries[2].Tag)
}

func TestHandleUserPointsFetchFailureFallsBackToZero(t *testing.T) {
	ts := newTestServer(t)

	ts.backend.EXPECT().
		GetUserPoints(gomock.Any(), "user-1", 1, 20).
		Return(nil, errors.New("backend down"))

	req := authedRequest(http.MethodGet, "/users/user-1/points", nil, "user-1", status.RoleCustomer)
	req = mux.SetURLVars(req, map[string]string{"id": "user-1"})

	rr := httptest.NewRecorder()
	ts.server.handleUserPoints(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user_id":"user-1","total":0,"entries":[],"stale":true}`, rr.Body.String())
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMocks     func(ts *testServer)
		expectedStatus int
	}{
		{
			name:        "successful login",
			requestBody: map[string]string{"username": "buyer1", "password": "secret"},
			setupMocks: func(ts *testServer) {
				ts.users.EXPECT().
					Authenticate(gomock.Any(), "buyer1", "secret").
					Return(&repository.User{ID: "user-1", Username: "buyer1", Role: "buyer"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "invalid credentials",
			requestBody: map[string]string{"username": "buyer1", "password": "wrong"},
			setupMocks: func(ts *testServer) {
				ts.users.EXPECT().
					Authenticate(gomock.Any(), "buyer1", "wrong").
					Return(nil, errors.New("invalid credentials"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			requestBody:    map[string]string{"username": "buyer1"},
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			tc.setupMocks(ts)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			ts.server.handleLogin(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"token"`)
				assert.Contains(t, rr.Body.String(), `"role":"buyer"`)
			}
		})
	}
}
