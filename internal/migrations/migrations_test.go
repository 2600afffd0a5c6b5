package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todoapp/internal/database/databasetest"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/migrations"
)

func TestUpAndDown(t *testing.T) {
	db := databasetest.OpenSQLite(t).GetDB()

	list, err := migrations.List(db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, m := range list {
		assert.False(t, m.Applied)
	}

	require.NoError(t, migrations.Up(db))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("todos"))
	assert.True(t, db.Migrator().HasColumn(&domain.User{}, "phone_number"))

	phone := "555-0102"
	u := &domain.User{Username: "gina", Email: "gina@example.com", HashedPassword: "x", PhoneNumber: &phone}
	require.NoError(t, db.Create(u).Error)

	require.NoError(t, migrations.Down(db))
	assert.False(t, db.Migrator().HasColumn(&domain.User{}, "phone_number"))
	assert.True(t, db.Migrator().HasTable("users"))

	var count int64
	require.NoError(t, db.Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	list, err = migrations.List(db)
	require.NoError(t, err)
	assert.Equal(t, []migrations.Status{
		{ID: "0001_create_users_and_todos", Applied: true},
		{ID: "0002_add_users_phone_number", Applied: false},
	}, list)

	require.NoError(t, migrations.Up(db))
	assert.True(t, db.Migrator().HasColumn(&domain.User{}, "phone_number"))

	// Up is a no-op once everything is applied.
	require.NoError(t, migrations.Up(db))
}

func TestDownToEmpty(t *testing.T) {
	db := databasetest.NewSQLite(t).GetDB()

	require.NoError(t, migrations.Down(db))
	require.NoError(t, migrations.Down(db))
	assert.False(t, db.Migrator().HasTable("users"))
	assert.False(t, db.Migrator().HasTable("todos"))
}
