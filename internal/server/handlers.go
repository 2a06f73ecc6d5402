package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/metrics"
	"github.com/recyloop/gateway/internal/points"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/status"
)

type orderView struct {
	market.Order
	AllowedTransitions []status.Status `json:"allowed_transitions"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	role := roleFromContext(r.Context())

	// Admins can inspect any user's orders; everyone else sees their own.
	if requested := r.URL.Query().Get("user_id"); requested != "" && role == status.RoleAdmin {
		userID = requested
	}

	orders, err := s.backend.ListOrders(r.Context(), userID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_orders").Inc()
		respondError(w, http.StatusBadGateway, "Failed to fetch orders")
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView{
			Order:              order,
			AllowedTransitions: status.AllowedTargets(role, order.Status),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": views})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}
	role := roleFromContext(r.Context())

	order, err := s.backend.GetOrder(r.Context(), orderID)
	if err == nil {
		respondJSON(w, http.StatusOK, orderView{
			Order:              *order,
			AllowedTransitions: status.AllowedTargets(role, order.Status),
		})
		return
	}

	// Backend unreachable: serve the local mirror as a degraded view rather
	// than failing the read.
	s.logger.Warn("backend order fetch failed, serving mirror",
		zap.String("order_id", orderID),
		zap.Error(err),
	)
	metrics.OperationErrorsTotal.WithLabelValues("get_order").Inc()

	snap, found := s.snapshots.Get(orderID)
	if !found {
		var repoErr error
		snap, repoErr = s.mirror.GetSnapshot(r.Context(), orderID)
		if repoErr != nil {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":                  snap.OrderID,
		"user_id":             snap.UserID,
		"status":              snap.Status,
		"updated_at":          snap.UpdatedAt,
		"allowed_transitions": status.AllowedTargets(role, status.Status(snap.Status)),
		"stale":               true,
	})
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}

	history, err := s.mirror.GetOrderHistory(r.Context(), orderID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("order_history").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to get order history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (s *Server) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}
	role := roleFromContext(r.Context())

	current, err := s.currentStatus(r, orderID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current": current,
		"allowed": status.AllowedTargets(role, current),
	})
}

func (s *Server) handleSubmitTransition(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}
	userID := userFromContext(r.Context())
	role := roleFromContext(r.Context())

	var transitionRequest struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&transitionRequest); err != nil || transitionRequest.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target := status.Normalize(transitionRequest.Status)

	current, err := s.currentStatus(r, orderID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	// Advisory pre-validation. The backend re-validates; this only saves a
	// round trip for transitions the UI should have disabled.
	if !status.CanTransition(role, current, target) {
		metrics.TransitionsDeniedTotal.Inc()
		respondError(w, http.StatusUnprocessableEntity,
			"Transition from '"+string(current)+"' to '"+string(target)+"' is not allowed for role '"+string(role)+"'")
		return
	}

	if target == status.Cancelled {
		err = s.backend.CancelOrder(r.Context(), orderID, transitionRequest.Note)
	} else {
		err = s.backend.UpdateOrderStatus(r.Context(), orderID, target, transitionRequest.Note)
	}
	if err != nil {
		metrics.TransitionsSubmittedTotal.WithLabelValues(string(role), "error").Inc()
		respondError(w, http.StatusBadGateway, "Backend rejected transition: "+err.Error())
		return
	}
	metrics.TransitionsSubmittedTotal.WithLabelValues(string(role), "ok").Inc()

	// Mirror the confirmed change locally. A mirror failure is logged, not
	// surfaced: the backend already accepted the transition.
	if err := s.mirror.RecordTransition(r.Context(), orderID, userID, target, transitionRequest.Note); err != nil {
		s.logger.Error("failed to mirror transition",
			zap.String("order_id", orderID),
			zap.String("status", string(target)),
			zap.Error(err),
		)
		metrics.OperationErrorsTotal.WithLabelValues("mirror_transition").Inc()
	} else if snap, repoErr := s.mirror.GetSnapshot(r.Context(), orderID); repoErr == nil {
		s.snapshots.Set(snap)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Order status updated successfully",
		"status":  string(target),
	})
}

// currentStatus resolves the freshest status the gateway knows: snapshot
// cache, then the mirror, then the backend.
func (s *Server) currentStatus(r *http.Request, orderID string) (status.Status, error) {
	if snap, found := s.snapshots.Get(orderID); found {
		return status.Normalize(snap.Status), nil
	}
	if snap, err := s.mirror.GetSnapshot(r.Context(), orderID); err == nil {
		return status.Normalize(snap.Status), nil
	} else if !errors.Is(err, repository.ErrObjectNotFound) {
		s.logger.Warn("mirror snapshot lookup failed", zap.String("order_id", orderID), zap.Error(err))
	}

	order, err := s.backend.GetOrder(r.Context(), orderID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (s *Server) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	role := roleFromContext(r.Context())

	var checkRequest struct {
		Items []market.CartItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&checkRequest); err != nil || len(checkRequest.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cartIDs := make([]string, 0, len(checkRequest.Items))
	for _, item := range checkRequest.Items {
		cartIDs = append(cartIDs, item.ID)
	}

	results := make(map[string]interface{}, len(checkRequest.Items))
	allAvailable := true
	for _, item := range checkRequest.Items {
		availability := s.checker.Check(role, cartIDs, item, item.Quantity)
		if !availability.Available {
			allAvailable = false
		}
		results[item.ID] = availability
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"all_available": allAvailable,
		"results":       results,
	})
}

func (s *Server) handleRefreshAvailability(w http.ResponseWriter, r *http.Request) {
	role := roleFromContext(r.Context())

	var refreshRequest struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&refreshRequest); err != nil || len(refreshRequest.ItemIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stocks, err := s.backend.GetItemsByID(r.Context(), refreshRequest.ItemIDs, role)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("refresh_availability").Inc()
		respondError(w, http.StatusBadGateway, "Failed to refresh availability")
		return
	}

	s.batchCache.Set(cache.BatchKey(refreshRequest.ItemIDs, role), stocks)
	for _, stock := range stocks {
		s.detailCache.Set(stock)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Availability refreshed",
		"items":   len(stocks),
	})
}

type taggedEntry struct {
	points.LedgerEntry
	Tag points.Tag `json:"tag"`
}

func (s *Server) handleUserPoints(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		respondError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	page := 1
	limit := 20
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
			page = v
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	summary, err := s.backend.GetUserPoints(r.Context(), userID, page, limit)
	if err != nil {
		// Degrade to a zero-points view so the ledger screen still renders.
		s.logger.Warn("points fetch failed, returning zero summary",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		metrics.OperationErrorsTotal.WithLabelValues("user_points").Inc()
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"user_id": userID,
			"total":   0,
			"entries": []taggedEntry{},
			"stale":   true,
		})
		return
	}

	entries := make([]taggedEntry, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		tag := points.Categorize(entry.Reason, entry.Points)
		metrics.PointsEntriesTaggedTotal.WithLabelValues(string(tag)).Inc()
		entries = append(entries, taggedEntry{LedgerEntry: entry, Tag: tag})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": summary.UserID,
		"total":   summary.Total,
		"entries": entries,
	})
}
