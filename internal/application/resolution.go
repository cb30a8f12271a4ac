package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
	"github.com/nish-jain4/qr-code-generator/internal/qr"
	"github.com/nish-jain4/qr-code-generator/internal/token"
)

// ResolutionStatus classifies the outcome of resolving a credential.
type ResolutionStatus int

const (
	// StatusFound means the token decoded and a matching record exists.
	StatusFound ResolutionStatus = iota
	// StatusNotFound means the token decoded but no record matches its
	// email. This happens after data loss or when the store was reset
	// while the key survived.
	StatusNotFound
	// StatusInvalidCredential means the token was malformed, tampered with
	// or sealed under a different key.
	StatusInvalidCredential
	// StatusUnreadableImage means no decodable QR code was found in the
	// supplied image.
	StatusUnreadableImage
)

// Message returns the user-facing text for the outcome. Internal error
// detail is never part of these messages.
func (s ResolutionStatus) Message() string {
	switch s {
	case StatusFound:
		return "registration found"
	case StatusNotFound:
		return "not registered"
	case StatusInvalidCredential:
		return "invalid credential"
	case StatusUnreadableImage:
		return "could not read code"
	default:
		return "unknown"
	}
}

// Resolution is the explicit result of a resolve operation. User is set
// only when Status == StatusFound, and never includes the image payload.
type Resolution struct {
	Status ResolutionStatus
	User   *model.User
}

// ResolutionService recovers registrations from token strings or uploaded
// QR images.
type ResolutionService struct {
	store  driven.UserStore
	codec  *token.Codec
	logger *slog.Logger
}

// NewResolutionService creates a ResolutionService.
func NewResolutionService(store driven.UserStore, codec *token.Codec, logger *slog.Logger) *ResolutionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionService{store: store, codec: codec, logger: logger}
}

// ResolveToken decodes a token string and looks up the record it names.
// Expected failure modes (bad token, no matching record) are reported in
// the Resolution, not as errors; only store I/O failures return an error.
func (s *ResolutionService) ResolveToken(ctx context.Context, tok string) (Resolution, error) {
	payload, err := s.codec.Decode(tok)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return Resolution{Status: StatusInvalidCredential}, nil
		}
		return Resolution{}, fmt.Errorf("resolve token: %w", err)
	}

	user, err := s.store.FindByEmail(ctx, payload.Email)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve token: %w", err)
	}
	if user == nil {
		s.logger.Info("token resolved to unknown email", "email", payload.Email)
		return Resolution{Status: StatusNotFound}, nil
	}

	// The image payload stays out of resolution responses.
	user.QRPNG = nil
	return Resolution{Status: StatusFound, User: user}, nil
}

// ResolveImage scans an uploaded image for a QR code and resolves the
// recovered token. An image with no readable code yields
// StatusUnreadableImage; an input that is not an image at all does too,
// since from the caller's point of view both mean "could not read code".
func (s *ResolutionService) ResolveImage(ctx context.Context, r io.Reader) (Resolution, error) {
	text, ok, err := qr.Scan(r)
	if err != nil {
		s.logger.Info("uploaded image not scannable", "error", err)
		return Resolution{Status: StatusUnreadableImage}, nil
	}
	if !ok {
		return Resolution{Status: StatusUnreadableImage}, nil
	}

	return s.ResolveToken(ctx, text)
}
