package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nish-jain4/qr-code-generator/internal/application"
	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest is the JSON body for registering a user.
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DeviceID      string `json:"device_id"`
	PaymentMethod string `json:"payment_method"`
	UPIID         string `json:"upi_id"`
}

// RegisterResponse confirms a registration and carries the issued token.
type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ResolveRequest is the JSON body for resolving a token string.
type ResolveRequest struct {
	Token string `json:"token"`
}

// UserSummaryResponse is the JSON representation of a user summary row.
type UserSummaryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LastLogin string `json:"last_login"`
}

func toUserSummaryResponse(u model.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		LastLogin: u.LastLogin.UTC().Format(time.RFC3339),
	}
}

// ResolutionResponse reports the outcome of resolving a credential. User is
// present only when the status is "found".
type ResolutionResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}

// UserResponse is the JSON representation of a resolved registration record.
// The stored image is never included; it is fetched separately via /api/v1/qr.
type UserResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	DeviceID  string `json:"device_id"`
	LastLogin string `json:"last_login"`
}

func toResolutionResponse(res application.Resolution) ResolutionResponse {
	resp := ResolutionResponse{
		Status:  statusString(res.Status),
		Message: res.Status.Message(),
	}
	if res.User != nil {
		resp.User = &UserResponse{
			Name:      res.User.Name,
			Email:     res.User.Email,
			Phone:     res.User.Phone,
			DeviceID:  res.User.DeviceID,
			LastLogin: res.User.LastLogin.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

func statusString(s application.ResolutionStatus) string {
	switch s {
	case application.StatusFound:
		return "found"
	case application.StatusNotFound:
		return "not_found"
	case application.StatusInvalidCredential:
		return "invalid_credential"
	case application.StatusUnreadableImage:
		return "unreadable_image"
	default:
		return "unknown"
	}
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
