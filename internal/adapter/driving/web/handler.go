// Package web implements the HTML GUI driving adapter: registration form,
// credential display and download, QR upload, resolution result pages and
// the session-gated admin dashboard.
package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	httphandler "github.com/nish-jain4/qr-code-generator/internal/adapter/driving/http"
	"github.com/nish-jain4/qr-code-generator/internal/application"
	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
	"github.com/nish-jain4/qr-code-generator/internal/qr"
	"github.com/nish-jain4/qr-code-generator/internal/token"
)

// Handler is the web GUI driving adapter serving HTML pages.
type Handler struct {
	users          driven.UserStore
	regSvc         *application.RegistrationService
	resSvc         *application.ResolutionService
	codec          *token.Codec
	sessions       *SessionManager
	maxUploadBytes int64
	templates      *template.Template
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. Page
// templates are parsed from the embedded filesystem; a malformed template is
// a programming error and panics at startup.
func NewHandler(
	users driven.UserStore,
	regSvc *application.RegistrationService,
	resSvc *application.ResolutionService,
	codec *token.Codec,
	sessions *SessionManager,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:          users,
		regSvc:         regSvc,
		resSvc:         resSvc,
		codec:          codec,
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
		templates:      template.Must(template.ParseFS(TemplatesFS, "templates/*.html")),
		logger:         logger,
	}
}

// Sessions exposes the session manager so the API adapter can share the
// same admin gate.
func (h *Handler) Sessions() *SessionManager {
	return h.sessions
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "home.html", nil)
}

// RegisterForm renders the registration form.
func (h *Handler) RegisterForm(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "register.html", registerPage{})
}

// RegisterSubmit handles the registration form post and redirects to the
// credential display page with the issued token.
func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	tok, _, err := h.regSvc.Register(r.Context(), application.RegistrationInput{
		Name:          r.PostFormValue("name"),
		Email:         r.PostFormValue("email"),
		Phone:         r.PostFormValue("phone"),
		DeviceID:      r.PostFormValue("device_id"),
		PaymentMethod: r.PostFormValue("payment_method"),
		UPIID:         r.PostFormValue("upi_id"),
	})
	if errors.Is(err, application.ErrMissingField) {
		h.render(w, "register.html", registerPage{Error: "Please fill in name, email and device ID."})
		return
	}
	if err != nil {
		h.logger.Error("registration failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/show-qr?data="+url.QueryEscape(tok), http.StatusSeeOther)
}

// ShowQR displays the issued credential: the token string, the QR image and
// a download link. The email shown is recovered from the token itself; a
// token that fails to decode still renders, just without the image links.
func (h *Handler) ShowQR(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("data")
	if tok == "" {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	page := showQRPage{Token: tok}
	if payload, err := h.codec.Decode(tok); err == nil {
		page.Email = payload.Email
	}

	h.render(w, "show_qr.html", page)
}

// UploadForm renders the QR upload form.
func (h *Handler) UploadForm(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "upload_qr.html", uploadPage{})
}

// UploadSubmit accepts an uploaded QR image, recovers the embedded token and
// redirects to the scan result page. The file extension is checked before
// any image data is read, and the body is capped at the configured limit.
func (h *Handler) UploadSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.render(w, "upload_qr.html", uploadPage{Error: "Upload too large or malformed."})
		return
	}

	file, header, err := r.FormFile("qrfile")
	if err != nil {
		h.render(w, "upload_qr.html", uploadPage{Error: "Please choose a file to upload."})
		return
	}
	defer file.Close()

	if !httphandler.AllowedImageName(header.Filename) {
		h.render(w, "upload_qr.html", uploadPage{Error: "Only png, jpg and jpeg files are accepted."})
		return
	}

	text, ok, err := qr.Scan(file)
	if err != nil || !ok {
		h.render(w, "upload_qr.html", uploadPage{Error: "Could not read a QR code in that image."})
		return
	}

	http.Redirect(w, r, "/scan?data="+url.QueryEscape(text), http.StatusSeeOther)
}

// Scan resolves a token from the query string and renders the outcome.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("data")
	if tok == "" {
		http.Redirect(w, r, "/upload-qr", http.StatusSeeOther)
		return
	}

	res, err := h.resSvc.ResolveToken(r.Context(), tok)
	if err != nil {
		h.logger.Error("failed to resolve token", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "scan.html", scanPage{
		Message: res.Status.Message(),
		Found:   res.Status == application.StatusFound,
		User:    res.User,
	})
}

// Dashboard renders the admin listing of all registered users. Reachable
// only with the admin session flag.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.IsAdmin(r) {
		http.Redirect(w, r, "/dev-login", http.StatusSeeOther)
		return
	}

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "dashboard.html", dashboardPage{Users: users})
}

// DevLoginForm renders the admin login form.
func (h *Handler) DevLoginForm(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "dev_login.html", loginPage{})
}

// DevLoginSubmit checks the submitted password against the admin gate and
// grants the session flag on success.
func (h *Handler) DevLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ok, err := h.sessions.Login(w, r, r.PostFormValue("password"))
	if err != nil {
		h.logger.Error("failed to save session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		h.render(w, "dev_login.html", loginPage{Error: "Invalid password."})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout drops the session and returns to the landing page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("failed to drop session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Page view models.

type registerPage struct {
	Error string
}

type showQRPage struct {
	Token string
	Email string
}

type uploadPage struct {
	Error string
}

type scanPage struct {
	Message string
	Found   bool
	User    *model.User
}

type dashboardPage struct {
	Users []model.UserSummary
}

type loginPage struct {
	Error string
}
