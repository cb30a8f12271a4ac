package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeUser(name, email string) model.User {
	return model.User{
		Name:          name,
		Email:         email,
		Phone:         "555-0100",
		DeviceID:      "dev-1",
		PaymentMethod: "card",
		UPIID:         "alice@upi",
		LastLogin:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		QRPNG:         []byte{0x89, 'P', 'N', 'G'},
	}
}

func TestUserRepo_UpsertAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, makeUser("Alice", "alice@x.com")))

	got, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "dev-1", got.DeviceID)
	assert.Equal(t, "card", got.PaymentMethod)
	assert.Equal(t, "alice@upi", got.UPIID)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), got.LastLogin)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.QRPNG)
	assert.NotZero(t, got.ID)
}

func TestUserRepo_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantumtrust.db")
	ctx := context.Background()

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db.Writer))

	repo := NewUserRepo(db)
	require.NoError(t, repo.Upsert(ctx, makeUser("Alice", "alice@x.com")))
	require.NoError(t, db.Close())

	// Reopen the same file: the committed row and image must come back.
	db, err = NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db.Writer))

	repo = NewUserRepo(db)
	got, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.QRPNG)

	png, err := repo.GetImage(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png)
}

func TestUserRepo_Find_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	got, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_Upsert_ReplacesExistingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, makeUser("Alice", "alice@x.com")))

	updated := makeUser("Alice Updated", "alice@x.com")
	updated.Phone = "555-0199"
	updated.QRPNG = []byte("second image")
	updated.LastLogin = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, updated))

	// Exactly one row for the email, holding the second registration's values.
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice Updated", got.Name)
	assert.Equal(t, "555-0199", got.Phone)
	assert.Equal(t, []byte("second image"), got.QRPNG)
	assert.Equal(t, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), got.LastLogin)
}

func TestUserRepo_Upsert_DefaultsLastLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u := makeUser("Bob", "bob@x.com")
	u.LastLogin = time.Time{}
	require.NoError(t, repo.Upsert(ctx, u))

	got, err := repo.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.LastLogin.IsZero())
}

func TestUserRepo_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, makeUser("Alice", "alice@x.com")))
	require.NoError(t, repo.Upsert(ctx, makeUser("Bob", "bob@x.com")))
	require.NoError(t, repo.Upsert(ctx, makeUser("Carol", "carol@x.com")))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by id, which follows insertion order.
	assert.Equal(t, "alice@x.com", all[0].Email)
	assert.Equal(t, "bob@x.com", all[1].Email)
	assert.Equal(t, "carol@x.com", all[2].Email)
}

func TestUserRepo_ListAll_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUserRepo_GetImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, makeUser("Alice", "alice@x.com")))

	png, err := repo.GetImage(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png)

	missing, err := repo.GetImage(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
