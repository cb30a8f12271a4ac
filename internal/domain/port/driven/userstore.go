package driven

import (
	"context"

	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
)

// UserStore defines the driven port for registration record persistence.
// There is no delete operation: records are only ever created or replaced.
type UserStore interface {
	// Upsert inserts the user or replaces the existing row with the same
	// email, including the stored credential image. The write is durable
	// before Upsert returns.
	Upsert(ctx context.Context, user model.User) error

	// FindByEmail retrieves a user by email, including the stored image.
	// Returns nil, nil if no user exists with that email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ListAll returns summaries of every registered user ordered by id.
	// Image payloads are excluded.
	ListAll(ctx context.Context) ([]model.UserSummary, error)

	// GetImage retrieves only the stored credential PNG for the given email.
	// Returns nil, nil if no user exists with that email.
	GetImage(ctx context.Context, email string) ([]byte, error)
}
