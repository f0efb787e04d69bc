package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("phone.region", "GB"))
	require.NoError(t, store.Set("workers.max", 8))
	require.NoError(t, store.Set("thumbnail.allow_upscale", true))

	val, ok := store.Get("phone.region")
	assert.True(t, ok)
	assert.Equal(t, "GB", val)
	assert.Equal(t, "GB", store.GetString("phone.region"))
	assert.Equal(t, 8, store.GetInt("workers.max"))
	assert.True(t, store.GetBool("thumbnail.allow_upscale"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("n", "not a number"))
	require.NoError(t, store.Set("s", 12))

	assert.Zero(t, store.GetInt("n"))
	assert.False(t, store.GetBool("n"))
	assert.Empty(t, store.GetString("s"))
}

func TestConfigStore_GetInt_NumericTypes(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", int64(320)))
	require.NoError(t, store.Set("b", float64(70)))

	assert.Equal(t, 320, store.GetInt("a"))
	assert.Equal(t, 70, store.GetInt("b"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("video.ffmpeg_path", "/usr/bin/ffmpeg"))
	require.NoError(t, store.Set("codes.min_digits", 6))

	assert.Equal(t, []string{"codes.min_digits", "video.ffmpeg_path"}, store.Keys())
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", i), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", i))
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 50)
}
