package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
	"github.com/veerspeaks/digitalsherpa-travelmate/testutil"
)

// runKVContract exercises the behaviour every backend must share.
func runKVContract(t *testing.T, kv repo.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, repo.KeyTrips, []byte(`[{"id":"t1"}]`)))

		got, err := kv.Get(ctx, repo.KeyTrips)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"t1"}]`, string(got))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, repo.KeyEvents, []byte(`[]`)))
		require.NoError(t, kv.Set(ctx, repo.KeyEvents, []byte(`[{"id":"e1"}]`)))

		got, err := kv.Get(ctx, repo.KeyEvents)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"e1"}]`, string(got))
	})

	t.Run("value bytes unmodified", func(t *testing.T) {
		// Non-canonical key order and spacing, plus an escaped NUL, must survive.
		doc := `[{"name":"a\u0000b",  "id":"t1"}]`
		require.NoError(t, kv.Set(ctx, repo.KeyMarketplace, []byte(doc)))

		got, err := kv.Get(ctx, repo.KeyMarketplace)
		require.NoError(t, err)
		assert.Equal(t, doc, string(got))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, repo.KeyUser, []byte(`{"id":"u1"}`)))
		require.NoError(t, kv.Remove(ctx, repo.KeyUser))

		_, err := kv.Get(ctx, repo.KeyUser)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("remove absent key", func(t *testing.T) {
		assert.NoError(t, kv.Remove(ctx, "never-set"))
	})
}

func TestMemoryKV(t *testing.T) {
	runKVContract(t, repo.NewMemoryKV())
}

func TestMemoryKV_ReturnsCopies(t *testing.T) {
	kv := repo.NewMemoryKV()
	ctx := context.Background()

	in := []byte(`"a"`)
	require.NoError(t, kv.Set(ctx, "k", in))
	in[1] = 'b' // mutating the caller's slice must not reach the store

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got))
}

func TestMemoryKV_CancelledContext(t *testing.T) {
	kv := repo.NewMemoryKV()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, kv.Set(ctx, "k", []byte(`1`)), context.Canceled)
}

func TestFileKV(t *testing.T) {
	kv, err := repo.NewFileKV(t.TempDir())
	require.NoError(t, err)
	runKVContract(t, kv)
}

func TestFileKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	kv, err := repo.NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), repo.KeyFeedPosts, []byte(`[]`)))

	b, err := os.ReadFile(filepath.Join(dir, "feed_posts.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(b))

	// No temp files are left behind after a successful write.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := repo.NewFileKV(t.TempDir())
	require.NoError(t, err)

	err = kv.Set(context.Background(), "../escape", []byte(`1`))
	assert.Error(t, err)
}

func TestPostgresKV(t *testing.T) {
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")
	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	runKVContract(t, repo.NewPostgresKV(tx))
}

func TestRedisKV(t *testing.T) {
	client := testutil.NewRedis(t)
	runKVContract(t, repo.NewRedisKV(client, testutil.RedisPrefix(t)))
}
