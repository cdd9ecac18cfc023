package favorites

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore() *Store {
	return NewStore(NewMemoryKV())
}

func TestStore_EmptyWhenUnset(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	favs, err := s.Favorites(ctx)
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)

	recents, err := s.Recents(ctx)
	require.NoError(t, err)
	assert.Empty(t, recents)
}

func TestStore_CorruptFavorites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, FavoritesKey, []byte("{not json")))

	_, err := NewStore(kv).Favorites(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode weatherFavorites")
}

func TestStore_NullFavorites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, FavoritesKey, []byte("null")))

	favs, err := NewStore(kv).Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestStore_SerializationContract(t *testing.T) {
	kv := NewMemoryKV()
	s := NewStore(kv)
	ctx := context.Background()

	require.NoError(t, s.SaveFavorites(ctx, []string{"Paris", "Tokyo", "Paris"}))

	raw, err := kv.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["Paris","Tokyo"]`, string(raw))
}

func TestStore_ToggleFavorite(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	added, list, err := s.ToggleFavorite(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"Paris"}, list)

	added, list, err = s.ToggleFavorite(ctx, "Tokyo")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"Paris", "Tokyo"}, list)

	added, list, err = s.ToggleFavorite(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"Tokyo"}, list)
}

func TestStore_ToggleFavoriteIsItsOwnInverse(t *testing.T) {
	prior := [][]string{
		{},
		{"Paris"},
		{"Paris", "Tokyo", "Lima"},
	}

	for _, start := range prior {
		for _, city := range []string{"Paris", "Tokyo", "Oslo"} {
			t.Run(fmt.Sprintf("%v/%s", start, city), func(t *testing.T) {
				s := newMemoryStore()
				ctx := context.Background()
				require.NoError(t, s.SaveFavorites(ctx, start))
				before, err := s.Favorites(ctx)
				require.NoError(t, err)

				_, _, err = s.ToggleFavorite(ctx, city)
				require.NoError(t, err)
				_, _, err = s.ToggleFavorite(ctx, city)
				require.NoError(t, err)

				after, err := s.Favorites(ctx)
				require.NoError(t, err)
				// toggling an existing favorite twice moves it to the end
				assert.ElementsMatch(t, before, after)
				if indexOf(before, city) < 0 {
					assert.Equal(t, before, after)
				}
			})
		}
	}
}

func TestStore_AddFavorite(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	added, list, err := s.AddFavorite(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"Paris"}, list)

	added, list, err = s.AddFavorite(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"Paris"}, list)

	ok, err := s.IsFavorite(ctx, "Paris")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_SaveToRecent(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	for _, c := range []string{"A", "B", "C"} {
		_, err := s.SaveToRecent(ctx, c)
		require.NoError(t, err)
	}
	recents, err := s.Recents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, recents)

	// existing entry moves to the front
	recents, err = s.SaveToRecent(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, recents)
}

func TestStore_SaveToRecentIdempotent(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	_, err := s.SaveToRecent(ctx, "B")
	require.NoError(t, err)
	_, err = s.SaveToRecent(ctx, "Oslo")
	require.NoError(t, err)
	_, err = s.SaveToRecent(ctx, "Oslo")
	require.NoError(t, err)

	recents, err := s.Recents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oslo", "B"}, recents)
}

func TestStore_RecentsNeverExceedFive(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		recents, err := s.SaveToRecent(ctx, fmt.Sprintf("city-%d", i))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(recents), MaxRecents)
	}

	recents, err := s.Recents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"city-19", "city-18", "city-17", "city-16", "city-15"}, recents)
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := s.ToggleFavorite(ctx, fmt.Sprintf("city-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	favs, err := s.Favorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 20)
}
