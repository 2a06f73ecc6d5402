//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/inventory"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/points"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/status"
)

// Mirror is the gateway's local order mirror: snapshots, append-only status
// history, and the audit outbox.
type Mirror interface {
	RecordTransition(ctx context.Context, orderID, userID string, to status.Status, note string) error
	GetSnapshot(ctx context.Context, orderID string) (*repository.OrderSnapshot, error)
	GetOrderHistory(ctx context.Context, orderID string) ([]*repository.HistoryEntry, error)
	EnqueueAudit(ctx context.Context, topic string, payload json.RawMessage) error
}

// Backend is the authoritative marketplace API.
type Backend interface {
	ListOrders(ctx context.Context, userID string) ([]market.Order, error)
	GetOrder(ctx context.Context, orderID string) (*market.Order, error)
	CancelOrder(ctx context.Context, orderID, note string) error
	UpdateOrderStatus(ctx context.Context, orderID string, to status.Status, note string) error
	GetItemsByID(ctx context.Context, itemIDs []string, role status.Role) ([]market.ItemStock, error)
	GetUserPoints(ctx context.Context, userID string, page, limit int) (*points.Summary, error)
}

type UserRepo interface {
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

type Config struct {
	JWTSecret  string
	AuditTopic string
}

type Server struct {
	mirror       Mirror
	backend      Backend
	users        UserRepo
	checker      *inventory.Checker
	batchCache   *cache.BatchCache
	detailCache  *cache.DetailCache
	snapshots    *cache.SnapshotCache
	auditManager *AuditManager
	logger       *zap.Logger
	jwtSecret    string
	server       *http.Server
}

func New(mirror Mirror, backend Backend, users UserRepo, checker *inventory.Checker,
	batchCache *cache.BatchCache, detailCache *cache.DetailCache, snapshots *cache.SnapshotCache,
	cfg Config, logger *zap.Logger) *Server {

	s := &Server{
		mirror:      mirror,
		backend:     backend,
		users:       users,
		checker:     checker,
		batchCache:  batchCache,
		detailCache: detailCache,
		snapshots:   snapshots,
		logger:      logger,
		jwtSecret:   cfg.JWTSecret,
	}
	sink := &outboxAuditSink{mirror: mirror, topic: cfg.AuditTopic}
	s.auditManager = NewAuditManager(2, 5, 500*time.Millisecond, sink, logger)
	return s
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.auditManager.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.auditManager.Shutdown(ctx)
	s.logger.Info("server shutdown completed")
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost).Name("handleLogin")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(s.authMiddleware, s.auditLogMiddleware)

	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet).Name("handleListOrders")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet).Name("handleGetOrder")
	api.HandleFunc("/orders/{id}/history", s.handleOrderHistory).Methods(http.MethodGet).Name("handleOrderHistory")
	api.HandleFunc("/orders/{id}/transitions", s.handleListTransitions).Methods(http.MethodGet).Name("handleListTransitions")
	api.HandleFunc("/orders/{id}/status", s.handleSubmitTransition).Methods(http.MethodPost).Name("handleSubmitTransition")

	api.HandleFunc("/items/availability", s.handleCheckAvailability).Methods(http.MethodPost).Name("handleCheckAvailability")
	api.HandleFunc("/items/refresh", s.handleRefreshAvailability).Methods(http.MethodPost).Name("handleRefreshAvailability")

	api.HandleFunc("/users/{id}/points", s.handleUserPoints).Methods(http.MethodGet).Name("handleUserPoints")

	return router
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// outboxAuditSink persists audit batches through the mirror's outbox so the
// publisher delivers them to Kafka.
type outboxAuditSink struct {
	mirror Mirror
	topic  string
}

func (s *outboxAuditSink) Persist(ctx context.Context, batch []AuditLogEntry) error {
	for _, entry := range batch {
		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := s.mirror.EnqueueAudit(ctx, s.topic, payload); err != nil {
			return err
		}
	}
	return nil
}
