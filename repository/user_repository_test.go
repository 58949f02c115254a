package repository

import (
	"context"
	"strings"
	"testing"

	"musicstore/db/dbtest"
	"musicstore/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepo(t *testing.T) UserRepository {
	return NewGormUserRepository(dbtest.Open(t))
}

func TestUserRepository_Create_PhoneOnlyDefaultsRole(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555")})

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "555", *user.Phone)
	assert.Nil(t, user.Email)
	assert.Equal(t, model.DefaultRole, user.Role)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, stored)
}

func TestUserRepository_Create_KeepsExplicitRole(t *testing.T) {
	repo := setupUserRepo(t)

	user, err := repo.Create(context.Background(), model.UserInput{Email: strPtr("dj@example.com"), Role: "Artist"})

	require.NoError(t, err)
	assert.Equal(t, "Artist", user.Role)
}

func TestUserRepository_Create_RequiresPhoneOrEmail(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, model.UserInput{Role: "Listener"})

	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.Nil(t, user)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_Create_RejectsOverlongPhone(t *testing.T) {
	repo := setupUserRepo(t)

	_, err := repo.Create(context.Background(), model.UserInput{Phone: strPtr(strings.Repeat("1", 16))})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserRepository_Create_AssignsFreshIDs(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, model.UserInput{Phone: strPtr("1")})
	require.NoError(t, err)
	second, err := repo.Create(ctx, model.UserInput{Phone: strPtr("2")})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUserRepository_List(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	for _, phone := range []string{"1", "2", "3"} {
		_, err := repo.Create(ctx, model.UserInput{Phone: strPtr(phone)})
		require.NoError(t, err)
	}

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, first, second, "list must be stable without intervening writes")
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := setupUserRepo(t)

	user, err := repo.GetByID(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_FindByAlternateKey(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	alice, err := repo.Create(ctx, model.UserInput{Phone: strPtr("111"), Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, model.UserInput{Phone: strPtr("222")})
	require.NoError(t, err)

	t.Run("phone only ignores email", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, strPtr("111"), nil)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("email only", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, nil, strPtr("alice@example.com"))
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("both keys match either", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, strPtr("222"), strPtr("nobody@example.com"))
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, bob.ID, user.ID)
	})

	t.Run("both keys matching different rows is absent", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, strPtr("222"), strPtr("alice@example.com"))
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("no match", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, strPtr("999"), nil)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("no keys", func(t *testing.T) {
		user, err := repo.FindByAlternateKey(ctx, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_FindByAlternateKey_DuplicatePhoneIsAbsent(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.UserInput{Phone: strPtr("333"), Email: strPtr("a@example.com")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.UserInput{Phone: strPtr("333"), Email: strPtr("b@example.com")})
	require.NoError(t, err)

	user, err := repo.FindByAlternateKey(ctx, strPtr("333"), nil)

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Update_OnlyRole(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555"), Email: strPtr("x@example.com")})
	require.NoError(t, err)

	ok, err := repo.Update(ctx, created.ID, model.UserPatch{Role: strPtr("Admin")})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", stored.Role)
	assert.Equal(t, "555", *stored.Phone)
	assert.Equal(t, "x@example.com", *stored.Email)
}

func TestUserRepository_Update_OnlyPhone(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555"), Email: strPtr("x@example.com"), Role: "Artist"})
	require.NoError(t, err)

	ok, err := repo.Update(ctx, created.ID, model.UserPatch{Phone: strPtr("777")})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "777", *stored.Phone)
	assert.Equal(t, "x@example.com", *stored.Email)
	assert.Equal(t, "Artist", stored.Role)
}

func TestUserRepository_Update_SameValuesStillFound(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555")})
	require.NoError(t, err)

	ok, err := repo.Update(ctx, created.ID, model.UserPatch{Phone: strPtr("555")})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Update(ctx, created.ID, model.UserPatch{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	existing, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555")})
	require.NoError(t, err)

	ok, err := repo.Update(ctx, existing.ID+100, model.UserPatch{Phone: strPtr("000")})
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", *stored.Phone)
}

func TestUserRepository_Update_RejectsEmptyRole(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.UserInput{Phone: strPtr("555")})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, model.UserPatch{Role: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.UserInput{Email: strPtr("gone@example.com")})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
