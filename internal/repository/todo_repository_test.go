package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todoapp/internal/database/databasetest"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/repository"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", HashedPassword: "x", IsActive: true, Role: "user"}
	require.NoError(t, repository.NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func TestTodoRepositoryOwnerScope(t *testing.T) {
	db := databasetest.NewSQLite(t).GetDB()
	repo := repository.NewGormTodoRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	mine := &domain.Todo{Title: "Buy milk", Description: "2% milk", Priority: 3, OwnerID: alice.ID}
	theirs := &domain.Todo{Title: "Walk dog", Description: "around the block", Priority: 2, OwnerID: bob.ID}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	t.Run("find", func(t *testing.T) {
		got, err := repo.FindByIDAndOwner(ctx, mine.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", got.Title)

		_, err = repo.FindByIDAndOwner(ctx, theirs.ID, alice.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)

		_, err = repo.FindByIDAndOwner(ctx, 9999, alice.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		todos, err := repo.ListByOwner(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, mine.ID, todos[0].ID)

		todos, err = repo.ListByOwner(ctx, 4242)
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("update other owner", func(t *testing.T) {
		err := repo.UpdateByIDAndOwner(ctx, theirs.ID, alice.ID, repository.TodoFields{Title: "hijacked", Description: "nope", Priority: 1})
		require.ErrorIs(t, err, repository.ErrNotFound)

		got, err := repo.FindByIDAndOwner(ctx, theirs.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Walk dog", got.Title)
	})

	t.Run("update writes zero values", func(t *testing.T) {
		fields := repository.TodoFields{Title: "Buy oat milk", Description: "1L", Priority: 5, Complete: true}
		require.NoError(t, repo.UpdateByIDAndOwner(ctx, mine.ID, alice.ID, fields))

		fields.Complete = false
		require.NoError(t, repo.UpdateByIDAndOwner(ctx, mine.ID, alice.ID, fields))

		got, err := repo.FindByIDAndOwner(ctx, mine.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.Equal(t, "1L", got.Description)
		assert.Equal(t, 5, got.Priority)
		assert.False(t, got.Complete)
		assert.Equal(t, alice.ID, got.OwnerID)
	})

	t.Run("delete", func(t *testing.T) {
		require.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, theirs.ID, alice.ID), repository.ErrNotFound)

		require.NoError(t, repo.DeleteByIDAndOwner(ctx, mine.ID, alice.ID))
		require.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, mine.ID, alice.ID), repository.ErrNotFound)

		_, err := repo.FindByIDAndOwner(ctx, theirs.ID, bob.ID)
		require.NoError(t, err)
	})
}

func TestUserRepository(t *testing.T) {
	db := databasetest.NewSQLite(t).GetDB()
	repo := repository.NewGormUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "carol")

	got, err := repo.FindByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", got.Email)
	assert.Nil(t, got.PhoneNumber)

	_, err = repo.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := repo.Exists(ctx, "someone", "carol@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "someone", "someone@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &domain.User{Username: "carol", Email: "other@example.com", HashedPassword: "x"}
	require.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)
}
