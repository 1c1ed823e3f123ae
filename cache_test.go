package benchboard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentCache(t *testing.T) {
	t.Run("PutNewGetAndDelete", func(t *testing.T) {
		cache := newEnvironmentCache()

		require.True(t, cache.PutNew("key0", "val0"))
		assert.False(t, cache.PutNew("key0", "val0"))
		require.True(t, cache.PutNew("key1", 1))
		assert.False(t, cache.PutNew("key1", 1))

		val0, ok := cache.Get("key0")
		assert.True(t, ok)
		assert.Equal(t, "val0", val0)

		val1, ok := cache.Get("key1")
		assert.True(t, ok)
		assert.Equal(t, 1, val1)

		cache.Delete("key0")
		val0, ok = cache.Get("key0")
		assert.False(t, ok)
		assert.Nil(t, val0)
	})
	t.Run("SwapReplacesValue", func(t *testing.T) {
		cache := newEnvironmentCache()

		prev, ok := cache.Swap("key", "first")
		assert.False(t, ok)
		assert.Nil(t, prev)

		prev, ok = cache.Swap("key", "second")
		assert.True(t, ok)
		assert.Equal(t, "first", prev)

		val, ok := cache.Get("key")
		require.True(t, ok)
		assert.Equal(t, "second", val)
		assert.False(t, cache.PutNew("key", "third"))
	})
	t.Run("KeysAreSorted", func(t *testing.T) {
		cache := newEnvironmentCache()
		assert.Empty(t, cache.Keys())

		cache.PutNew("b", 1)
		cache.PutNew("c", 1)
		cache.PutNew("a", 1)
		assert.Equal(t, []string{"a", "b", "c"}, cache.Keys())
	})
	t.Run("ConcurrentSwapAndGet", func(t *testing.T) {
		cache := newEnvironmentCache()
		require.True(t, cache.PutNew("key", "init"))

		wg := &sync.WaitGroup{}
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				cache.Swap("key", fmt.Sprint(i))
			}(i)
			go func() {
				defer wg.Done()
				val, ok := cache.Get("key")
				assert.True(t, ok)
				assert.NotNil(t, val)
			}()
		}
		wg.Wait()

		_, ok := cache.Get("key")
		assert.True(t, ok)
	})
}
