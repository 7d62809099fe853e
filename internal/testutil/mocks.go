package testutil

import (
	"context"

	"tunebridge/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCatalogClient is a mock implementation of catalog.Client for testing
type MockCatalogClient struct {
	mock.Mock
	catalogName string
}

func NewMockCatalogClient(catalogName string) *MockCatalogClient {
	return &MockCatalogClient{catalogName: catalogName}
}

func (m *MockCatalogClient) CatalogName() string {
	return m.catalogName
}

func (m *MockCatalogClient) Search(ctx context.Context, query string, limit int) ([]*models.Song, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Song), args.Error(1)
}

func (m *MockCatalogClient) CreatePlaylist(ctx context.Context, accessToken, name, description string) (string, error) {
	args := m.Called(ctx, accessToken, name, description)
	return args.String(0), args.Error(1)
}

func (m *MockCatalogClient) AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) error {
	args := m.Called(ctx, accessToken, playlistID, trackIDs)
	return args.Error(0)
}

func (m *MockCatalogClient) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockConversionRepository is a mock implementation of
// repositories.ConversionRepository for testing
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) Create(ctx context.Context, record *models.ConversionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConversionRepository) Update(ctx context.Context, record *models.ConversionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConversionRepository) FindByID(ctx context.Context, id string) (*models.ConversionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionRecord), args.Error(1)
}

func (m *MockConversionRepository) FindConversion(ctx context.Context, playlistID, targetCatalog string) (*models.ConversionRecord, error) {
	args := m.Called(ctx, playlistID, targetCatalog)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionRecord), args.Error(1)
}

// MockPlaylistRepository is a mock implementation of
// repositories.PlaylistRepository for testing
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) FindByID(ctx context.Context, id string) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) LoadSongs(ctx context.Context, playlistID string) ([]*models.Song, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Song), args.Error(1)
}

// MockSongRepository is a mock implementation of
// repositories.SongRepository for testing
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) Upsert(ctx context.Context, song *models.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) FindByCatalogTrackID(ctx context.Context, catalog, trackID string) (*models.Song, error) {
	args := m.Called(ctx, catalog, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

func (m *MockSongRepository) FindMany(ctx context.Context, ids []string) ([]*models.Song, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Song), args.Error(1)
}

// MockTokenProvider is a mock implementation of catalog.TokenProvider for
// testing
type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) AccessToken(ctx context.Context, userID, catalog string) (string, error) {
	args := m.Called(ctx, userID, catalog)
	return args.String(0), args.Error(1)
}
