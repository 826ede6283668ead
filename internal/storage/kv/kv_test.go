package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "k1", "first"))
	require.NoError(t, s.Set(ctx, "k1", "second"))
	require.NoError(t, s.Set(ctx, "k2", "other"))

	value, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", value)

	value, ok, err = s.Get(ctx, "k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "other", value)

	require.Error(t, s.Set(ctx, "", "x"))
	_, _, err = s.Get(ctx, "")
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kv.db")
	dsn, err := SQLiteDSNForFile(dbPath)
	require.NoError(t, err)

	s, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dsn, err := SQLiteDSNForFile(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "convai_chat_abc", `{"x":1}`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	value, ok, err := second.Get(ctx, "convai_chat_abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"x":1}`, value)
}

func TestSQLiteDSNRequiresPath(t *testing.T) {
	_, err := SQLiteDSNForFile("  ")
	require.Error(t, err)
	_, err = NewSQLiteStore("")
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisSettings{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}
