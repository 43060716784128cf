package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	bookingssvc "github.com/slotwise/slotwise-saas/domains/bookings/be/service"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
	"github.com/slotwise/slotwise-saas/platform/go/metrics"
	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// Handler exposes the public embeddable widget surface. Routes here run
// without authentication: the tenant scope middleware resolves callers to a
// booking-only scope, so nothing beyond booking creation is reachable.
type Handler struct {
	bookings *bookingssvc.Service
	logger   *zap.Logger
	metrics  *metrics.APIMetrics
}

// New constructs a Handler instance.
func New(bookings *bookingssvc.Service, logger *zap.Logger, m *metrics.APIMetrics) *Handler {
	if bookings == nil {
		panic("bookings service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{bookings: bookings, logger: logger, metrics: m}
}

type slotsResponse struct {
	TenantID string   `json:"tenantId"`
	Slots    []string `json:"slots"`
	MinDate  string   `json:"minDate"`
	MaxDate  string   `json:"maxDate"`
}

type createRequest struct {
	Date        string                       `json:"date"`
	Time        string                       `json:"time"`
	Customer    bookingssvc.CustomerSnapshot `json:"customer"`
	Description string                       `json:"description"`
}

// Slots handles GET /widget/slots?tenant=. It mirrors the grid the embedded
// widget renders: half-hour slots and a 30-day booking window.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	today := time.Now().UTC()
	httpjson.WriteJSON(w, http.StatusOK, slotsResponse{
		TenantID: scope.TenantID,
		Slots:    bookingssvc.Slots(),
		MinDate:  today.Format("2006-01-02"),
		MaxDate:  today.AddDate(0, 0, 30).Format("2006-01-02"),
	})
}

// CreateBooking handles POST /widget/bookings?tenant=. Status is always
// pending for widget submissions regardless of the payload.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookings.Create(r.Context(), scope, bookingssvc.CreateInput{
		Date:        req.Date,
		Time:        req.Time,
		Customer:    req.Customer,
		Description: req.Description,
	})
	if err != nil {
		var validationErr *bookingssvc.ValidationError
		switch {
		case errors.As(err, &validationErr):
			httpjson.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation error",
				"fields": validationErr.Fields,
			})
		case errors.Is(err, bookingssvc.ErrForbidden):
			httpjson.WriteError(w, http.StatusForbidden, "forbidden")
		default:
			platformlogging.FromRequest(r, h.logger).Error("widget booking", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "create booking failed")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCreatedTotal.WithLabelValues("widget").Inc()
	}
	platformlogging.FromRequest(r, h.logger).Info("widget booking created",
		zap.String("tenant_id", scope.TenantID),
		zap.Int64("booking_id", booking.ID),
	)
	httpjson.WriteJSON(w, http.StatusCreated, booking)
}
