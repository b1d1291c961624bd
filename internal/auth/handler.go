package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/insured-api/internal/httputil"
	"github.com/redmonkez12/insured-api/internal/insured"
	"github.com/redmonkez12/insured-api/internal/logging"
	"github.com/redmonkez12/insured-api/internal/metrics"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	metrics *metrics.Metrics
}

func NewHandler(service *Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles insured login
// @Summary      Login of the insured
// @Description  Authenticates the insured with email and password, returning access and refresh tokens.
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResult
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      413 {object} httputil.ErrorResponse "Request body too large"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials (also under fields.non_field_errors)"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/v1/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondDecodeError(w, err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": insured.NormalizeEmail(req.Email)})

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, insured.ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			h.metrics.IncLogin("invalid_credentials")
			httputil.RespondNonField(w, insured.ErrInvalidCredentials.Error(), httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		h.metrics.IncLogin("error")
		httputil.RespondError(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("insured logged in successfully", "insured_id", result.InsuredID)
	h.metrics.IncLogin("success")

	httputil.RespondJSON(w, result, http.StatusOK)
}
