package repository

import (
	"context"
	"testing"

	"fundbridge/models"
	"fundbridge/repository/testutil"
	"fundbridge/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found by id and email", func(t *testing.T) {
		testUser := testutil.CreateTestUser(models.RoleInvestor)
		require.NoError(t, repo.Create(ctx, testUser))
		assert.False(t, testUser.CreatedAt.IsZero())

		byID, err := repo.GetByID(ctx, testUser.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, testUser.Email, byID.Email)
		assert.Equal(t, models.RoleInvestor, byID.Role)
		assert.Equal(t, testUser.Balance, byID.Balance)

		byEmail, err := repo.GetByEmail(ctx, testUser.Email)
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, testUser.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		first := testutil.CreateTestUser(models.RoleBusiness)
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestUser(models.RoleBusiness)
		second.Email = first.Email
		assert.ErrorIs(t, repo.Create(ctx, second), service.ErrConflict)
	})

	t.Run("get by ids", func(t *testing.T) {
		a := testutil.CreateTestUser(models.RoleInvestor)
		b := testutil.CreateTestUser(models.RoleInvestor)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		users, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, users, 2)

		empty, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUserWithBalance(models.RoleInvestor, 5000)
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateBalance(ctx, user.ID, 7500))

	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), updated.Balance)

	t.Run("negative balance rejected by schema", func(t *testing.T) {
		assert.Error(t, repo.UpdateBalance(ctx, user.ID, -1))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, uuid.New(), 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestBusinessUserRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBusinessUserRepository(testDB.DB)
	ctx := context.Background()

	owner := testutil.CreateTestUser(models.RoleBusiness)
	require.NoError(t, users.Create(ctx, owner))

	profile := testutil.CreateTestBusinessProfile(owner.ID)
	require.NoError(t, repo.Upsert(ctx, profile))
	require.NotZero(t, profile.ID)

	founded := 2019
	updated := testutil.CreateTestBusinessProfile(owner.ID)
	updated.CompanyName = "Acme Renewables"
	updated.FoundedYear = &founded
	require.NoError(t, repo.Upsert(ctx, updated))
	assert.Equal(t, profile.ID, updated.ID)

	fetched, err := repo.GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Acme Renewables", fetched.CompanyName)
	require.NotNil(t, fetched.FoundedYear)
	assert.Equal(t, 2019, *fetched.FoundedYear)

	missing, err := repo.GetByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
