package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-saas/domains/customers/be/service"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// Handler exposes the tenant-scoped customer endpoints. The tenant scope
// middleware must run before every route here.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("customers service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// List handles GET /api/v1/customers?tenant=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	customers, err := h.svc.List(r.Context(), scope)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpjson.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		platformlogging.FromRequest(r, h.logger).Error("list customers", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "list customers failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, customers)
}

// Create handles POST /api/v1/customers?tenant=.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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

	customer, err := h.svc.Create(r.Context(), scope, service.CreateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
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
			platformlogging.FromRequest(r, h.logger).Error("create customer", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "create customer failed")
		}
		return
	}
	httpjson.WriteJSON(w, http.StatusCreated, customer)
}

// Delete handles DELETE /api/v1/customers/{customerID}?tenant=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, http.StatusInternalServerError, "tenant scope missing")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	switch err := h.svc.Delete(r.Context(), scope, id); {
	case err == nil:
		httpjson.WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
	case errors.Is(err, service.ErrNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, service.ErrForbidden):
		httpjson.WriteError(w, http.StatusForbidden, "forbidden")
	default:
		platformlogging.FromRequest(r, h.logger).Error("delete customer", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "delete customer failed")
	}
}
