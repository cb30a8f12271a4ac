// Package httphandler implements the JSON REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nish-jain4/qr-code-generator/internal/application"
	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
)

// AdminChecker reports whether the request carries an admin session. The web
// adapter's session manager satisfies it; listing endpoints deny without it.
type AdminChecker interface {
	IsAdmin(r *http.Request) bool
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	users          driven.UserStore
	regSvc         *application.RegistrationService
	resSvc         *application.ResolutionService
	admin          AdminChecker
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	users driven.UserStore,
	regSvc *application.RegistrationService,
	resSvc *application.ResolutionService,
	admin AdminChecker,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:          users,
		regSvc:         regSvc,
		resSvc:         resSvc,
		admin:          admin,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterAPIRoutes registers all REST API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/users", h.RegisterUser)
	mux.HandleFunc("GET /api/v1/users", h.ListUsers)
	mux.HandleFunc("GET /api/v1/qr", h.GetQR)
	mux.HandleFunc("POST /api/v1/resolve", h.ResolveToken)
	mux.HandleFunc("POST /api/v1/resolve/image", h.ResolveImage)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the mux with logging and recovery middleware.
// Recovery innermost so panics are caught before logging.
func ApplyMiddleware(mux http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// RegisterUser registers a new user (or re-registers an existing email) and
// returns the issued credential token. The token is a bearer credential:
// it appears only in the response body, never in logs.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tok, _, err := h.regSvc.Register(r.Context(), application.RegistrationInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		DeviceID:      req.DeviceID,
		PaymentMethod: req.PaymentMethod,
		UPIID:         req.UPIID,
	})
	if err != nil {
		if errors.Is(err, application.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "missing required fields")
			return
		}
		h.logger.Error("failed to register user", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{Message: "user added", Token: tok})
}

// ListUsers returns summaries of all registered users. Admin-gated.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.admin.IsAdmin(r) {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]UserSummaryResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserSummaryResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetQR streams the stored credential image for the given email as PNG.
func (h *Handler) GetQR(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email parameter is required")
		return
	}

	png, err := h.users.GetImage(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to load qr image", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "qr code not found for email")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ResolveToken resolves a credential token string to its registration record.
func (h *Handler) ResolveToken(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	res, err := h.resSvc.ResolveToken(r.Context(), req.Token)
	if err != nil {
		h.logger.Error("failed to resolve token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toResolutionResponse(res))
}

// ResolveImage resolves an uploaded QR image to its registration record.
// The upload must be a png/jpg/jpeg file below the configured size limit;
// the extension is checked before any image data is read.
func (h *Handler) ResolveImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("qrfile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "qrfile is required")
		return
	}
	defer file.Close()

	if !AllowedImageName(header.Filename) {
		writeError(w, http.StatusBadRequest, "only png, jpg and jpeg files are accepted")
		return
	}

	res, err := h.resSvc.ResolveImage(r.Context(), file)
	if err != nil {
		h.logger.Error("failed to resolve image", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toResolutionResponse(res))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// AllowedImageName reports whether the uploaded filename has one of the
// accepted image extensions. Shared with the web upload form.
func AllowedImageName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".png") ||
		strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg")
}
