package insured

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/insured-api/internal/httputil"
	"github.com/redmonkez12/insured-api/internal/logging"
	"github.com/redmonkez12/insured-api/internal/metrics"
)

// Handler contains HTTP handlers for insured registration and self-service
type Handler struct {
	service *Service
	metrics *metrics.Metrics
}

func NewHandler(service *Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// Register handles insured registration
// @Summary      Insured registration
// @Description  Register a new insured. The password is write only and never returned.
// @Tags         insured
// @Accept       json
// @Produce      json
// @Param        request body RegisterInput true "Registration data"
// @Success      201 {object} Response
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      413 {object} httputil.ErrorResponse "Request body too large"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/v1/insureds/ [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondDecodeError(w, err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": NormalizeEmail(req.Email)})

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Warn("registration failed: validation error", "error", verr.Error())
			h.metrics.IncRegistration("invalid")
			httputil.RespondFields(w, verr.Fields)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		h.metrics.IncRegistration("error")
		httputil.RespondError(w, "failed to register insured", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("insured registered successfully", "insured_id", created.ID)
	h.metrics.IncRegistration("success")

	httputil.RespondJSON(w, created.ToResponse(), http.StatusCreated)
}

// Me returns the authenticated insured
// @Summary      Current insured profile
// @Tags         insured
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Response
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /api/v1/insureds/me/ [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "authentication required", httputil.CodeNotAuthenticated, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, principal.ToResponse(), http.StatusOK)
}

// Edit partially updates the authenticated insured.
// Only the caller's own record can be edited.
// @Summary      Edit insured profile (partial update)
// @Description  Updates the name and optionally the password. Both password fields must be sent and match to change the password; empty strings leave it unchanged.
// @Tags         insured
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body EditRequest true "Profile changes"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      413 {object} httputil.ErrorResponse "Request body too large"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/v1/insureds/me/ [patch]
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "authentication required", httputil.CodeNotAuthenticated, http.StatusUnauthorized)
		return
	}

	var req EditRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid edit request body", "error", err.Error())
		httputil.RespondDecodeError(w, err)
		return
	}

	intent, err := req.Validate()
	if err != nil {
		logger.Warn("edit rejected", "error", err.Error())
		h.metrics.IncProfileEdit("invalid")
		respondEditError(w, err)
		return
	}

	updated, err := h.service.ApplyEdit(r.Context(), principal.ID, intent)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The record vanished after authentication; answer as an auth failure
			logger.Warn("edit failed: insured no longer exists")
			h.metrics.IncProfileEdit("not_found")
			httputil.RespondError(w, "invalid token", httputil.CodeNotAuthenticated, http.StatusUnauthorized)
			return
		}
		logger.Error("edit failed: internal error", "error", err.Error())
		h.metrics.IncProfileEdit("error")
		httputil.RespondError(w, "failed to update insured", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("insured updated", "name_changed", intent.Name != nil, "password_changed", intent.Password != nil)
	h.metrics.IncProfileEdit("success")

	httputil.RespondJSON(w, updated.ToResponse(), http.StatusOK)
}

func respondEditError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.RespondFields(w, verr.Fields)
	case errors.Is(err, ErrBothPasswordFieldsRequired):
		httputil.RespondNonField(w, err.Error(), httputil.CodeBothPasswordFieldsRequired, http.StatusBadRequest)
	case errors.Is(err, ErrPasswordConfirmationMismatch):
		httputil.RespondNonField(w, err.Error(), httputil.CodePasswordConfirmationMismatch, http.StatusBadRequest)
	default:
		httputil.RespondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
	}
}
