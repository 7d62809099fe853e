package testutil

import (
	"context"
	"sync"

	"tunebridge/internal/models"
	"tunebridge/internal/repositories"
)

// InMemoryConversionRepository is a ConversionRepository with the same
// atomic duplicate semantics as the Mongo implementation, for tests
type InMemoryConversionRepository struct {
	mu      sync.Mutex
	records map[string]*models.ConversionRecord
}

// NewInMemoryConversionRepository creates an empty in-memory repository
func NewInMemoryConversionRepository() *InMemoryConversionRepository {
	return &InMemoryConversionRepository{records: make(map[string]*models.ConversionRecord)}
}

func (r *InMemoryConversionRepository) Create(_ context.Context, record *models.ConversionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.SourcePlaylistID == record.SourcePlaylistID &&
			existing.TargetCatalog == record.TargetCatalog &&
			existing.Status != models.ConversionFailed {
			return repositories.ErrDuplicateRecord
		}
	}
	r.records[record.ID] = record
	return nil
}

func (r *InMemoryConversionRepository) Update(_ context.Context, record *models.ConversionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

func (r *InMemoryConversionRepository) FindByID(_ context.Context, id string) (*models.ConversionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id], nil
}

func (r *InMemoryConversionRepository) FindConversion(_ context.Context, playlistID, targetCatalog string) (*models.ConversionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.SourcePlaylistID == playlistID && existing.TargetCatalog == targetCatalog {
			return existing, nil
		}
	}
	return nil, nil
}
