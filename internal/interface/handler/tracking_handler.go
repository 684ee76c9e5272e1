// internal/interface/handler/tracking_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// TrackingHandler exposes the price tracking core over HTTP
type TrackingHandler struct {
	service          usecase.PriceTrackerService
	notificationRepo repository.NotificationRepository
	validator        *usecase.RequestValidator
	logger           logger.Logger
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(
	service usecase.PriceTrackerService,
	notificationRepo repository.NotificationRepository,
	validator *usecase.RequestValidator,
	log logger.Logger,
) *TrackingHandler {
	return &TrackingHandler{
		service:          service,
		notificationRepo: notificationRepo,
		validator:        validator,
		logger:           log,
	}
}

// Register mounts all routes on the router
func (h *TrackingHandler) Register(router *httprouter.Router) {
	router.POST("/api/v1/routes", h.TrackRoute)
	router.GET("/api/v1/routes", h.ListRoutes)
	router.GET("/api/v1/routes/:id", h.GetRoute)
	router.DELETE("/api/v1/routes/:id", h.RemoveRoute)
	router.POST("/api/v1/routes/:id/price", h.ObservePrice)
	router.PUT("/api/v1/routes/:id/alert", h.SetAlertRule)
	router.GET("/api/v1/routes/:id/history", h.GetHistory)
	router.GET("/api/v1/routes/:id/stats", h.GetStats)

	// httprouter cannot mix static and wildcard segments at the same
	// position, so marking everything read is a PUT on the collection
	router.GET("/api/v1/notifications", h.ListNotifications)
	router.PUT("/api/v1/notifications", h.MarkAllNotificationsRead)
	router.POST("/api/v1/notifications/:id/read", h.MarkNotificationRead)
	router.DELETE("/api/v1/notifications/:id", h.DeleteNotification)
	router.DELETE("/api/v1/notifications", h.ClearNotifications)
}

type errorResponse struct {
	Error string `json:"error"`
}

// TrackRoute starts tracking a route
func (h *TrackingHandler) TrackRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req entity.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	trackingID, err := h.service.TrackRoute(r.Context(), &req)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"trackingId": trackingID})
}

// ListRoutes returns all tracked routes
func (h *TrackingHandler) ListRoutes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, h.service.ListRoutes(r.Context()))
}

// GetRoute returns one tracked route
func (h *TrackingHandler) GetRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	route, found := h.service.GetRoute(r.Context(), ps.ByName("id"))
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, route)
}

// RemoveRoute stops tracking a route
func (h *TrackingHandler) RemoveRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.service.RemoveRoute(r.Context(), ps.ByName("id")) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ObservePrice reports a fresh price sample for a tracked route
func (h *TrackingHandler) ObservePrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req entity.ObserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.ValidateObserveRequest(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	change, found := h.service.ObservePrice(r.Context(), ps.ByName("id"), req.Price)
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, change)
}

// SetAlertRule enables alerting on a tracked route
func (h *TrackingHandler) SetAlertRule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req entity.AlertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	ok, err := h.service.SetAlertRule(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetHistory returns the price history of a tracked route
func (h *TrackingHandler) GetHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, found := h.service.GetHistory(r.Context(), ps.ByName("id"))
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

// GetStats returns summary statistics for a tracked route
func (h *TrackingHandler) GetStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stats, found := h.service.GetStats(r.Context(), ps.ByName("id"))
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Tracking ID not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// ListNotifications returns the notification log, newest first
func (h *TrackingHandler) ListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	if query.Get("unread") == "true" {
		h.writeJSON(w, http.StatusOK, h.notificationRepo.Unread(r.Context()))
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid limit parameter"})
			return
		}
	}

	h.writeJSON(w, http.StatusOK, h.notificationRepo.List(r.Context(), limit))
}

// MarkNotificationRead marks one notification as read
func (h *TrackingHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.notificationRepo.MarkRead(r.Context(), ps.ByName("id")) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Notification not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every notification as read
func (h *TrackingHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.notificationRepo.MarkAllRead(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotification removes one notification
func (h *TrackingHandler) DeleteNotification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.notificationRepo.Delete(r.Context(), ps.ByName("id")) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Notification not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotifications removes all notifications
func (h *TrackingHandler) ClearNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.notificationRepo.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackingHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write JSON response", "error", err)
	}
}
