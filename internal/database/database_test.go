package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookdb/internal/contract"
)

// setupTestHelper opens a fresh database in a temp dir
func setupTestHelper(t *testing.T) (*Helper, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", DatabaseName)
	h := NewHelper(dbPath, Options{})
	require.NoError(t, h.Open(context.Background()))
	t.Cleanup(func() { h.Close() })
	return h, dbPath
}

func countBooks(t *testing.T, h *Helper) int64 {
	t.Helper()
	db, err := h.Readable()
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Table(contract.TableName).Count(&n).Error)
	return n
}

func TestHelper_OpenCreatesFileAndTable(t *testing.T) {
	h, dbPath := setupTestHelper(t)

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	v, err := h.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Version, v)

	db, err := h.Readable()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(contract.TableName))
	for _, col := range contract.Columns {
		assert.True(t, db.Migrator().HasColumn(contract.TableName, col), "column %s", col)
	}
}

func TestHelper_OpenIsIdempotent(t *testing.T) {
	h, _ := setupTestHelper(t)
	ctx := context.Background()

	require.NoError(t, h.Write(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO books (title, author, type) VALUES (?, ?, ?)", "Dune", "Herbert", 1).Error
	}))

	require.NoError(t, h.Open(ctx))
	assert.Equal(t, int64(1), countBooks(t, h))
}

func TestHelper_ReopenKeepsData(t *testing.T) {
	h, dbPath := setupTestHelper(t)
	ctx := context.Background()

	require.NoError(t, h.Write(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO books (title, author, type) VALUES (?, ?, ?)", "Dune", "Herbert", 1).Error
	}))
	require.NoError(t, h.Close())

	// The creation script must not run again on an existing file.
	reopened := NewHelper(dbPath, Options{})
	require.NoError(t, reopened.Open(ctx))
	defer reopened.Close()

	assert.Equal(t, int64(1), countBooks(t, reopened))
}

func TestHelper_NotOpen(t *testing.T) {
	h := NewHelper(filepath.Join(t.TempDir(), "x.db"), Options{})

	_, err := h.Readable()
	assert.ErrorIs(t, err, ErrNotOpen)

	err = h.Write(context.Background(), func(tx *gorm.DB) error { return nil })
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.ErrorIs(t, h.Ping(context.Background()), ErrNotOpen)
	assert.NoError(t, h.Close(), "closing an unopened helper is a no-op")
}

func TestHelper_CloseThenUse(t *testing.T) {
	h, _ := setupTestHelper(t)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, err := h.Readable()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestHelper_Migrations(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), DatabaseName)

	v1 := NewHelper(dbPath, Options{})
	require.NoError(t, v1.Open(ctx))
	require.NoError(t, v1.Close())

	t.Run("applies registered step", func(t *testing.T) {
		called := false
		v2 := NewHelper(dbPath, Options{
			Version: 2,
			Migrations: map[MigrationKey]Migration{
				{From: 1, To: 2}: func(tx *gorm.DB) error {
					called = true
					return tx.Exec("ALTER TABLE books ADD COLUMN isbn TEXT").Error
				},
			},
		})
		require.NoError(t, v2.Open(ctx))
		defer v2.Close()

		assert.True(t, called)
		v, err := v2.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		db, _ := v2.Readable()
		assert.True(t, db.Migrator().HasColumn(contract.TableName, "isbn"))
	})

	t.Run("missing step is fatal", func(t *testing.T) {
		v3 := NewHelper(dbPath, Options{Version: 3})
		err := v3.Open(ctx)
		assert.ErrorIs(t, err, ErrMissingMigration)

		_, err = v3.Readable()
		assert.ErrorIs(t, err, ErrNotOpen)
	})

	t.Run("downgrade is rejected", func(t *testing.T) {
		old := NewHelper(dbPath, Options{Version: 1})
		err := old.Open(ctx)
		assert.ErrorIs(t, err, ErrDowngrade)
	})
}

func TestHelper_FailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), DatabaseName)

	v1 := NewHelper(dbPath, Options{})
	require.NoError(t, v1.Open(ctx))
	require.NoError(t, v1.Close())

	broken := NewHelper(dbPath, Options{
		Version: 2,
		Migrations: map[MigrationKey]Migration{
			{From: 1, To: 2}: func(tx *gorm.DB) error {
				return tx.Exec("ALTER TABLE nope ADD COLUMN x TEXT").Error
			},
		},
	})
	require.Error(t, broken.Open(ctx))

	again := NewHelper(dbPath, Options{})
	require.NoError(t, again.Open(ctx))
	defer again.Close()
	v, err := again.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestHelper_InMemory(t *testing.T) {
	h := NewHelper(":memory:", Options{})
	require.NoError(t, h.Open(context.Background()))
	defer h.Close()

	assert.Equal(t, int64(0), countBooks(t, h))
}

func TestHelper_ConcurrentWrites(t *testing.T) {
	h, _ := setupTestHelper(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := h.Write(ctx, func(tx *gorm.DB) error {
				return tx.Exec("INSERT INTO books (title, author, type) VALUES (?, ?, ?)", "t", "a", 0).Error
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), countBooks(t, h))
}

func TestHelper_Ping(t *testing.T) {
	h, _ := setupTestHelper(t)
	assert.NoError(t, h.Ping(context.Background()))
	assert.Equal(t, DatabaseName, filepath.Base(h.Path()))
}
