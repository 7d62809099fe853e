package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunebridge/internal/cache"
	"tunebridge/internal/models"
	"tunebridge/internal/testutil"
)

func TestCachedClient_SearchReadThrough(t *testing.T) {
	inner := testutil.NewMockCatalogClient("spotify")
	song := models.NewSong("Imagine", "John Lennon", "spotify", "track-1")
	inner.On("Search", mock.Anything, "imagine", 5).
		Return([]*models.Song{song}, nil).Once()

	client := NewCachedClient(inner, cache.NewMemoryCache())
	ctx := context.Background()

	first, err := client.Search(ctx, "imagine", 5)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second lookup is served from cache; the inner client is not called
	// again (the mock would panic on a second call)
	second, err := client.Search(ctx, "imagine", 5)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "track-1", second[0].CatalogTrackID)

	inner.AssertExpectations(t)
}

func TestCachedClient_DistinctKeysPerQueryAndLimit(t *testing.T) {
	inner := testutil.NewMockCatalogClient("spotify")
	inner.On("Search", mock.Anything, "imagine", 5).
		Return([]*models.Song{models.NewSong("Imagine", "John Lennon", "spotify", "t1")}, nil).Once()
	inner.On("Search", mock.Anything, "imagine", 10).
		Return([]*models.Song{models.NewSong("Imagine", "John Lennon", "spotify", "t1")}, nil).Once()

	client := NewCachedClient(inner, cache.NewMemoryCache())
	ctx := context.Background()

	_, err := client.Search(ctx, "imagine", 5)
	require.NoError(t, err)
	_, err = client.Search(ctx, "imagine", 10)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestCachedClient_ErrorsAreNotCached(t *testing.T) {
	inner := testutil.NewMockCatalogClient("spotify")
	inner.On("Search", mock.Anything, "imagine", 5).
		Return(nil, errors.New("rate limited")).Once()
	inner.On("Search", mock.Anything, "imagine", 5).
		Return([]*models.Song{models.NewSong("Imagine", "John Lennon", "spotify", "t1")}, nil).Once()

	client := NewCachedClient(inner, cache.NewMemoryCache())
	ctx := context.Background()

	_, err := client.Search(ctx, "imagine", 5)
	require.Error(t, err)

	songs, err := client.Search(ctx, "imagine", 5)
	require.NoError(t, err, "a failed search does not poison the cache")
	assert.Len(t, songs, 1)
}

func TestCachedClient_WritesBypassCache(t *testing.T) {
	inner := testutil.NewMockCatalogClient("spotify")
	inner.On("CreatePlaylist", mock.Anything, "token", "Road Trip", "").
		Return("playlist-1", nil)
	inner.On("AddTracks", mock.Anything, "token", "playlist-1", []string{"t1"}).
		Return(nil)

	client := NewCachedClient(inner, cache.NewMemoryCache())
	ctx := context.Background()

	id, err := client.CreatePlaylist(ctx, "token", "Road Trip", "")
	require.NoError(t, err)
	assert.Equal(t, "playlist-1", id)
	require.NoError(t, client.AddTracks(ctx, "token", "playlist-1", []string{"t1"}))

	inner.AssertExpectations(t)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	assert.Nil(t, registry.Get("spotify"))
	assert.Empty(t, registry.Catalogs())

	spotify := testutil.NewMockCatalogClient("spotify")
	appleMusic := testutil.NewMockCatalogClient("apple_music")
	registry.Register(spotify)
	registry.Register(appleMusic)

	assert.Equal(t, spotify, registry.Get("spotify"))
	assert.Equal(t, appleMusic, registry.Get("apple_music"))
	assert.Nil(t, registry.Get("tidal"))
	assert.Len(t, registry.Catalogs(), 2)
}

func TestStaticTokenProvider(t *testing.T) {
	provider := StaticTokenProvider{"spotify": "token-1"}

	token, err := provider.AccessToken(context.Background(), "user-1", "spotify")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	token, err = provider.AccessToken(context.Background(), "user-1", "apple_music")
	require.NoError(t, err)
	assert.Empty(t, token, "no stored credential resolves to an empty token, not an error")
}
