package application_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nish-jain4/qr-code-generator/internal/adapter/driven/sqlite"
	"github.com/nish-jain4/qr-code-generator/internal/application"
)

// A credential handed out before a process restart must still resolve after
// the database is reopened from disk under the same key.
func TestResolveToken_SurvivesStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantumtrust.db")
	codec := testCodec(t)
	ctx := context.Background()

	db, err := sqlite.NewDB(path)
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(db.Writer))

	regSvc := application.NewRegistrationService(sqlite.NewUserRepo(db), codec, nil)
	tok, _, err := regSvc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.RunMigrations(db.Writer))

	resSvc := application.NewResolutionService(sqlite.NewUserRepo(db), codec, nil)
	res, err := resSvc.ResolveToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, application.StatusFound, res.Status)
	require.NotNil(t, res.User)
	assert.Equal(t, "alice@x.com", res.User.Email)
	assert.Equal(t, "dev-42", res.User.DeviceID)
}
