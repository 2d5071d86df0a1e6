package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := NewKey()

	_, err := s.Load(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, key, []byte(`{"a":1}`)))
	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, s.Save(ctx, key, []byte(`{"a":2}`)))
	got, err = s.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got), "save overwrites")

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Load(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")

	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := NewKey()
			assert.NoError(t, s.Save(ctx, key, []byte("v")))
			_, err := s.Load(ctx, key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, s.Save(context.Background(), key, []byte("x")), ErrInvalidKey, "key %q", key)
	}
}

func TestFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore(" ")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("AMORTIZE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AMORTIZE_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("AMORTIZE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AMORTIZE_TEST_POSTGRES_DSN not set")
	}
	s, err := NewPostgresStore(context.Background(), dsn, "amortization_state_test")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, Config{Driver: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New(ctx, Config{Driver: "s3"})
	assert.ErrorContains(t, err, "unsupported driver")

	_, err = New(ctx, Config{Driver: "redis", Addr: "localhost:6379", TTL: "soon"})
	assert.ErrorContains(t, err, "invalid redis ttl")

	_, err = New(ctx, Config{Driver: "postgres"})
	assert.ErrorContains(t, err, "requires a dsn")
}

func TestConfigDefaultKey(t *testing.T) {
	assert.Equal(t, "loan-amortization-state", Config{}.DefaultKey())
	assert.Equal(t, "mine", Config{Key: " mine "}.DefaultKey())
}

func TestSaveAndLoadState(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	state := State{
		Inputs:    amortization.RawLoanInputs{Principal: "10000", InterestRate: "12", TermMonths: "12"},
		Overrides: []amortization.RawOverride{{Rank: "3"}},
		StartDate: "2025-01-01",
		Rows:      []amortization.Row{{Rank: 1, Payment: 888.49}},
		Summary:   amortization.Summary{Payments: 1},
	}

	saved, err := SaveState(ctx, s, "loan", state)
	require.NoError(t, err)
	assert.Equal(t, "loan", saved.ID)
	assert.False(t, saved.SavedAt.IsZero())

	loaded, err := LoadState(ctx, s, "loan")
	require.NoError(t, err)
	assert.Equal(t, saved.Inputs, loaded.Inputs)
	assert.Equal(t, saved.Overrides, loaded.Overrides)
	assert.Equal(t, 888.49, loaded.Rows[0].Payment)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))

	for _, key := range []string{"", " ", ".", "..", "a/b", `a\b`} {
		_, err = SaveState(ctx, s, key, state)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}

	_, err = LoadState(ctx, s, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "garbage", []byte("not json")))
	_, err = LoadState(ctx, s, "garbage")
	assert.ErrorContains(t, err, "decode state")
}
