package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.RegisterSubmit)
	mux.HandleFunc("GET /show-qr", h.ShowQR)
	mux.HandleFunc("GET /upload-qr", h.UploadForm)
	mux.HandleFunc("POST /upload-qr", h.UploadSubmit)
	mux.HandleFunc("GET /scan", h.Scan)
	mux.HandleFunc("GET /dashboard", h.Dashboard)
	mux.HandleFunc("GET /dev-login", h.DevLoginForm)
	mux.HandleFunc("POST /dev-login", h.DevLoginSubmit)
	mux.HandleFunc("GET /logout", h.Logout)
}
