package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

func attach(t *testing.T, cfg types.Config) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(dir, "data")}

	b := attach(t, cfg)
	_, err := os.Stat(filepath.Join(cfg.DataDir, DBFile))
	assert.NoError(t, err, "database file created")

	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)

	exec, err := b.Executor()
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, exec.Dialect().Name())
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	_, err := b.Executor()
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach is a no-op")

	_, err := b.Executor()
	assert.ErrorIs(t, err, types.ErrBackendDetached)
}

func TestBackend_ReattachKeepsRows(t *testing.T) {
	ctx := context.Background()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	exec, err := b.Executor()
	require.NoError(t, err)
	id, err := exec.InsertOrUpdate(ctx, "jhi_user", mo.None[int64](), []types.ColumnValue{{Column: "login", Value: "alice"}})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b = attach(t, cfg)
	exec, err = b.Executor()
	require.NoError(t, err)
	n := 0
	for row, err := range exec.Execute(ctx, `SELECT id FROM jhi_user`) {
		require.NoError(t, err)
		got, _ := row.Get("id")
		assert.Equal(t, id, got)
		n++
	}
	assert.Equal(t, 1, n)
}

func TestBackend_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	missingUser := []types.ColumnValue{{Column: "register_user_id", Value: int64(99)}}

	b := attach(t, types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	exec, err := b.Executor()
	require.NoError(t, err)
	_, err = exec.InsertOrUpdate(ctx, "resource_data", mo.None[int64](), missingUser)
	assert.ErrorIs(t, err, types.ErrConflict)

	b = attach(t, types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SkipForeignKeys: true})
	exec, err = b.Executor()
	require.NoError(t, err)
	_, err = exec.InsertOrUpdate(ctx, "resource_data", mo.None[int64](), missingUser)
	assert.NoError(t, err)
}

func TestDialect(t *testing.T) {
	d := Dialect{}
	assert.Equal(t, "?", d.Placeholder(3))
	assert.Equal(t, `"registerUser_id"`, d.Quote("registerUser_id"))
	assert.Equal(t, `"a""b"`, d.Quote(`a"b`))
}

func TestDataSource(t *testing.T) {
	dsn, err := dataSource(types.Config{Backend: types.BackendSQLite, DSN: "file:x.db?mode=rwc", SkipForeignKeys: true})
	require.NoError(t, err)
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=busy_timeout(5000)", dsn)
}
