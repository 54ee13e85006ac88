package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the shared contract against a backend.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "lang", "twi"))
	v, ok, err := s.Get(ctx, "lang")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "twi", v)

	require.NoError(t, s.Set(ctx, "lang", "ewe"))
	v, _, err = s.Get(ctx, "lang")
	require.NoError(t, err)
	assert.Equal(t, "ewe", v)

	require.NoError(t, s.Set(ctx, "empty", ""))
	v, ok, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	require.NoError(t, s.Remove(ctx, "lang"))
	_, ok, err = s.Get(ctx, "lang")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "never-set"))
}

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat.bolt")
	b, err := NewBolt(path)
	require.NoError(t, err)
	defer b.Close()

	exerciseStorage(t, b)
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.bolt")

	b, err := NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "gra_user_id", "user_1"))
	require.NoError(t, b.Close())

	b, err = NewBolt(path)
	require.NoError(t, err)
	defer b.Close()

	v, ok, err := b.Get(ctx, "gra_user_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user_1", v)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer r.Close()

	exerciseStorage(t, r)
}

func TestRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestPrefixedIsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := NewPrefixed(base, "chat:1:")
	b := NewPrefixed(base, "chat:2:")

	require.NoError(t, a.Set(ctx, "gra_language", "twi"))

	_, ok, err := b.Get(ctx, "gra_language")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := base.Get(ctx, "chat:1:gra_language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "twi", v)

	exerciseStorage(t, b)
}

type failingStorage struct{}

var errBackendDown = errors.New("backend down")

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errBackendDown
}
func (failingStorage) Set(context.Context, string, string) error { return errBackendDown }
func (failingStorage) Remove(context.Context, string) error      { return errBackendDown }

func TestTolerantDropsFailedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewTolerant(failingStorage{}, nil)

	assert.NoError(t, s.Set(ctx, "gra_conversations", "[]"))
	assert.NoError(t, s.Remove(ctx, "gra_conversations"))
}

func TestTolerantReportsFailedReads(t *testing.T) {
	s := NewTolerant(failingStorage{}, nil)

	v, ok, err := s.Get(context.Background(), "gra_conversations")

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "backend down")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestTolerantPassesThrough(t *testing.T) {
	exerciseStorage(t, NewTolerant(NewMemory(), nil))
}

func TestRedisFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer r.Close()

	exerciseStorage(t, r)
}
