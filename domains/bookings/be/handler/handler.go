package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-saas/domains/bookings/be/service"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
	"github.com/slotwise/slotwise-saas/platform/go/metrics"
	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// Handler exposes the tenant-scoped booking endpoints used by the dashboard.
type Handler struct {
	svc     *service.Service
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger, m *metrics.APIMetrics) *Handler {
	if svc == nil {
		panic("bookings service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger, metrics: m}
}

// CreateRequest is the booking creation payload, shared with the widget handler.
type CreateRequest struct {
	Date        string                   `json:"date"`
	Time        string                   `json:"time"`
	Customer    service.CustomerSnapshot `json:"customer"`
	Status      string                   `json:"status"`
	Description string                   `json:"description"`
}

// List handles GET /api/v1/bookings?tenant=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	bookings, err := h.svc.List(r.Context(), scope)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpjson.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		platformlogging.FromRequest(r, h.logger).Error("list bookings", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "list bookings failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, bookings)
}

// Create handles POST /api/v1/bookings?tenant=.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	var req CreateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.svc.Create(r.Context(), scope, service.CreateInput{
		Date:        req.Date,
		Time:        req.Time,
		Customer:    req.Customer,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpjson.WriteError(w, http.StatusForbidden, "forbidden")
		case errors.As(err, &validationErr):
			httpjson.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation error",
				"fields": validationErr.Fields,
			})
		default:
			platformlogging.FromRequest(r, h.logger).Error("create booking", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "create booking failed")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCreatedTotal.WithLabelValues("dashboard").Inc()
	}
	httpjson.WriteJSON(w, http.StatusCreated, booking)
}

// Delete handles DELETE /api/v1/bookings/{bookingID}?tenant=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch err := h.svc.Delete(r.Context(), scope, id); {
	case err == nil:
		httpjson.WriteJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted"})
	case errors.Is(err, service.ErrNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "Booking not found")
	case errors.Is(err, service.ErrForbidden):
		httpjson.WriteError(w, http.StatusForbidden, "forbidden")
	default:
		platformlogging.FromRequest(r, h.logger).Error("delete booking", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "delete booking failed")
	}
}
