package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/slotwise/slotwise-saas/domains/auth/be/service"
	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
	"github.com/slotwise/slotwise-saas/platform/go/metrics"
)

// Handler exposes the login/logout endpoints.
type Handler struct {
	svc     *service.Service
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger, m *metrics.APIMetrics) *Handler {
	if svc == nil {
		panic("auth service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger, metrics: m}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenantId"`
}

type loginResponse struct {
	User  platformauth.Principal `json:"user"`
	Token string                 `json:"token"`
}

// Login handles POST /api/v1/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := platformlogging.FromRequest(r, h.logger)

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Username:   req.Username,
		Password:   req.Password,
		TenantHint: req.TenantID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.countLogin("invalid_credentials")
			httpjson.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrInvalidTenant):
			h.countLogin("invalid_tenant")
			httpjson.WriteError(w, http.StatusUnauthorized, "Invalid business ID")
		default:
			h.countLogin("error")
			logger.Error("login failed", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.countLogin("success")
	logger.Info("principal logged in",
		zap.Int64("principal_id", result.Principal.ID),
		zap.String("role", result.Principal.Role),
	)
	httpjson.WriteJSON(w, http.StatusOK, loginResponse{User: result.Principal, Token: result.Token})
}

// Logout handles POST /api/v1/logout. The token to revoke is the caller's own
// bearer token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "bearer token required")
		return
	}

	if err := h.svc.Logout(r.Context(), strings.TrimSpace(parts[1])); err != nil {
		platformlogging.FromRequest(r, h.logger).Error("logout failed", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	httpjson.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) countLogin(result string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(result).Inc()
	}
}
