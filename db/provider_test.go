package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openProviders returns one instance of every embedded backend. Redis and
// Postgres need external servers and are covered by the same interface, so
// they are left to integration environments.
func openProviders(t *testing.T) map[string]DatabaseProvider {
	t.Helper()

	dir := t.TempDir()

	bolt, err := NewBoltProvider(filepath.Join(dir, "state.db"))
	require.NoError(t, err)

	level, err := NewLevelDBProvider(filepath.Join(dir, "leveldb"))
	require.NoError(t, err)

	providers := map[string]DatabaseProvider{
		"memory":  NewMemoryProvider(),
		"bolt":    bolt,
		"leveldb": level,
	}
	t.Cleanup(func() {
		for _, p := range providers {
			p.Close()
		}
	})
	return providers
}

func TestProviderPutGetDelete(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("alpha/k1")

			got, err := p.Get(key)
			require.NoError(t, err)
			assert.Nil(t, got, "missing key must read as nil")

			require.NoError(t, p.Put(key, []byte("v1")))

			got, err = p.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			has, err := p.Has(key)
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, p.Delete(key))
			has, err = p.Has(key)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestProviderGetBatch(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put([]byte("b/1"), []byte("one")))
			require.NoError(t, p.Put([]byte("b/2"), []byte("two")))

			result, err := p.GetBatch([][]byte{[]byte("b/1"), []byte("b/2"), []byte("b/3")})
			require.NoError(t, err)
			assert.Len(t, result, 2)
			assert.Equal(t, []byte("one"), result["b/1"])
			assert.Equal(t, []byte("two"), result["b/2"])
			_, ok := result["b/3"]
			assert.False(t, ok, "missing keys stay absent from the result")
		})
	}
}

func TestProviderBatchAtomicWrite(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put([]byte("c/old"), []byte("stale")))

			batch := p.Batch()
			batch.Put([]byte("c/a"), []byte("1"))
			batch.Put([]byte("c/b"), []byte("2"))
			batch.Delete([]byte("c/old"))

			// nothing visible before Write
			got, err := p.Get([]byte("c/a"))
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, batch.Write())
			require.NoError(t, batch.Close())

			got, err = p.Get([]byte("c/a"))
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), got)

			has, err := p.Has([]byte("c/old"))
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestProviderBatchReset(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			batch := p.Batch()
			batch.Put([]byte("d/a"), []byte("1"))
			batch.Reset()
			require.NoError(t, batch.Write())
			require.NoError(t, batch.Close())

			has, err := p.Has([]byte("d/a"))
			require.NoError(t, err)
			assert.False(t, has, "reset batch must write nothing")
		})
	}
}

func TestProviderIteratePrefix(t *testing.T) {
	for name, p := range openProviders(t) {
		iterable, ok := p.(IterableProvider)
		require.True(t, ok, "%s must support iteration", name)

		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put([]byte("e/scan/1"), []byte("a")))
			require.NoError(t, p.Put([]byte("e/scan/2"), []byte("b")))
			require.NoError(t, p.Put([]byte("e/scan/3"), []byte("c")))
			require.NoError(t, p.Put([]byte("e/other"), []byte("x")))

			var keys []string
			err := iterable.IteratePrefix([]byte("e/scan/"), func(key, value []byte) bool {
				keys = append(keys, string(key))
				return true
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"e/scan/1", "e/scan/2", "e/scan/3"}, keys, "ascending key order")

			// early stop
			count := 0
			err = iterable.IteratePrefix([]byte("e/scan/"), func(key, value []byte) bool {
				count++
				return false
			})
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestWithBatchCommitsOnSuccess(t *testing.T) {
	p := NewMemoryProvider()
	defer p.Close()

	err := WithBatch(p, func(batch DatabaseBatch) error {
		batch.Put([]byte("f/k"), []byte("v"))
		return nil
	})
	require.NoError(t, err)

	got, err := p.Get([]byte("f/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestWithBatchDiscardsOnError(t *testing.T) {
	p := NewMemoryProvider()
	defer p.Close()

	boom := fmt.Errorf("boom")
	err := WithBatch(p, func(batch DatabaseBatch) error {
		batch.Put([]byte("g/k"), []byte("v"))
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	has, err := p.Has([]byte("g/k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNewProviderFactory(t *testing.T) {
	dir := t.TempDir()

	mem, err := NewProvider(MemoryProviderType, "")
	require.NoError(t, err)
	defer mem.Close()
	_, ok := mem.(*MemoryProvider)
	assert.True(t, ok)

	bolt, err := NewProvider(BoltProviderType, filepath.Join(dir, "f.db"))
	require.NoError(t, err)
	defer bolt.Close()
	_, ok = bolt.(*BoltProvider)
	assert.True(t, ok)

	_, err = NewProvider(ProviderType("tape"), "")
	assert.Error(t, err)
}
