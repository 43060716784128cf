package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-saas/domains/businesses/be/service"
	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
)

// Handler exposes the super-admin business lifecycle endpoints.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("businesses service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

type createRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`
}

type createResponse struct {
	Business service.Business       `json:"business"`
	User     platformauth.Principal `json:"user"`
}

// List handles GET /api/v1/businesses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.svc.List(r.Context())
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("list businesses", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "list businesses failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string][]service.Business{"businesses": businesses})
}

// Get handles GET /api/v1/businesses/{businessID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessID")

	business, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpjson.WriteError(w, http.StatusNotFound, "Business not found")
			return
		}
		platformlogging.FromRequest(r, h.logger).Error("get business", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "get business failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]service.Business{"business": business})
}

// Create handles POST /api/v1/businesses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Create(r.Context(), service.CreateInput{
		ID:            req.ID,
		Name:          req.Name,
		Domain:        req.Domain,
		AdminUsername: req.AdminUsername,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			httpjson.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation error",
				"fields": validationErr.Fields,
			})
		case errors.Is(err, service.ErrDuplicateTenantID):
			httpjson.WriteError(w, http.StatusBadRequest, "Business ID already exists")
		case errors.Is(err, service.ErrDuplicateUsername):
			httpjson.WriteError(w, http.StatusBadRequest, "Admin username already exists")
		default:
			logger.Error("create business", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "create business failed")
		}
		return
	}

	logger.Info("business created",
		zap.String("business_id", result.Business.ID),
		zap.Int64("admin_id", result.Admin.ID),
	)
	httpjson.WriteJSON(w, http.StatusCreated, createResponse{Business: result.Business, User: result.Admin})
}

// Delete handles DELETE /api/v1/businesses/{businessID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessID")

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("delete business", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "delete business failed")
		return
	}
	if !deleted {
		httpjson.WriteError(w, http.StatusNotFound, "Business not found")
		return
	}

	platformlogging.FromRequest(r, h.logger).Info("business deleted", zap.String("business_id", id))
	httpjson.WriteJSON(w, http.StatusOK, map[string]string{"message": "Business deleted successfully"})
}
