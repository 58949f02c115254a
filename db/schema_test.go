package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"musicstore/config"
	"musicstore/db"
	"musicstore/db/dbtest"
	"musicstore/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureSchema_CreatesTables(t *testing.T) {
	gdb := dbtest.Open(t)

	assert.True(t, gdb.Migrator().HasTable("music_users"))
	assert.True(t, gdb.Migrator().HasTable("tracks"))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()

	phone := "555"
	require.NoError(t, gdb.Create(&model.UserAccount{Phone: &phone, Role: model.DefaultRole}).Error)

	require.NoError(t, db.EnsureSchema(ctx, gdb))
	require.NoError(t, db.EnsureSchema(ctx, gdb))

	var count int64
	require.NoError(t, gdb.Model(&model.UserAccount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-running the initializer must keep existing rows")
}

func TestEnsureSchema_ContactCheckConstraint(t *testing.T) {
	gdb := dbtest.Open(t)

	err := gdb.Exec("INSERT INTO music_users (role) VALUES ('Listener')").Error
	assert.Error(t, err)

	var count int64
	require.NoError(t, gdb.Model(&model.UserAccount{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureSchema_ColumnDefaults(t *testing.T) {
	gdb := dbtest.Open(t)

	require.NoError(t, gdb.Exec("INSERT INTO music_users (email) VALUES ('a@b.c')").Error)
	require.NoError(t, gdb.Exec("INSERT INTO tracks (title, author, duration, file_path) VALUES ('t', 'a', 10, '')").Error)

	var user model.UserAccount
	require.NoError(t, gdb.First(&user).Error)
	assert.Equal(t, model.DefaultRole, user.Role)

	var track model.Track
	require.NoError(t, gdb.First(&track).Error)
	assert.False(t, track.Downloaded)
	assert.False(t, track.Favorite)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	gdb := dbtest.Open(t)
	boom := errors.New("boom")

	err := db.WithTx(context.Background(), gdb, func(tx *gorm.DB) error {
		email := "rollback@example.com"
		if err := tx.Create(&model.UserAccount{Email: &email, Role: model.DefaultRole}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&model.UserAccount{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:            "root",
		DBPassword:        "secret",
		DBHost:            "127.0.0.1",
		DBPort:            "3306",
		DBName:            "music_users",
		DBConnMaxLifetime: time.Hour,
	}

	dsn := db.DSN(cfg)

	assert.Contains(t, dsn, "root:secret@tcp(127.0.0.1:3306)/music_users")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
