// Package application contains the registration and resolution workflows
// orchestrating the token codec, QR codec and record store, plus the
// shared-secret authorizer for the admin view.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
	"github.com/nish-jain4/qr-code-generator/internal/qr"
	"github.com/nish-jain4/qr-code-generator/internal/token"
)

// ErrMissingField is returned when a required registration field is empty.
// Use errors.Is to detect it; the wrapped message names the field.
var ErrMissingField = errors.New("missing required field")

// RegistrationInput carries the raw form fields for a registration request.
// Values arrive as opaque strings from the web layer; only presence of the
// required fields is validated here.
type RegistrationInput struct {
	Name          string
	Email         string
	Phone         string
	DeviceID      string
	PaymentMethod string
	UPIID         string
}

// RegistrationService builds encrypted credentials for new and returning
// registrations and persists them with the rendered QR image.
type RegistrationService struct {
	store  driven.UserStore
	codec  *token.Codec
	logger *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(store driven.UserStore, codec *token.Codec, logger *slog.Logger) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{store: store, codec: codec, logger: logger}
}

// Register validates the input, issues an encrypted token for the
// registration event, renders it as a QR PNG and upserts the record.
// Registering an email that already exists overwrites the stored record and
// image in place. The returned token is bearer-equivalent and is never
// logged here.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (tok string, png []byte, err error) {
	if err := validateInput(in); err != nil {
		return "", nil, err
	}

	issuedAt := time.Now().UTC()

	tok, err = s.codec.Encode(token.Payload{
		Email:    in.Email,
		DeviceID: in.DeviceID,
		IssuedAt: issuedAt.Format(time.RFC3339),
		Nonce:    uuid.NewString(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("register %s: %w", in.Email, err)
	}

	png, err = qr.Render(tok, qr.DefaultModulePixels)
	if err != nil {
		return "", nil, fmt.Errorf("register %s: %w", in.Email, err)
	}

	user := model.User{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		DeviceID:      in.DeviceID,
		PaymentMethod: in.PaymentMethod,
		UPIID:         in.UPIID,
		LastLogin:     issuedAt,
		QRPNG:         png,
	}
	if err := s.store.Upsert(ctx, user); err != nil {
		return "", nil, fmt.Errorf("register %s: %w", in.Email, err)
	}

	s.logger.Info("user registered", "email", in.Email)
	return tok, png, nil
}

func validateInput(in RegistrationInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name", ErrMissingField)
	case in.Email == "":
		return fmt.Errorf("%w: email", ErrMissingField)
	case in.DeviceID == "":
		return fmt.Errorf("%w: device_id", ErrMissingField)
	}
	return nil
}
