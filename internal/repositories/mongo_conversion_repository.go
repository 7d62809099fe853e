package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tunebridge/internal/models"
)

// mongoConversionRepository implements ConversionRepository using MongoDB.
// The partial unique index on (source_playlist_id, target_catalog) over
// non-failed statuses makes Create an atomic check-and-insert.
type mongoConversionRepository struct {
	collection *mongo.Collection
}

// NewMongoConversionRepository creates a MongoDB-backed conversion repository
func NewMongoConversionRepository(db *models.Database) ConversionRepository {
	return &mongoConversionRepository{
		collection: db.DB.Collection("conversions"),
	}
}

// Create inserts a new conversion record
func (r *mongoConversionRepository) Create(ctx context.Context, record *models.ConversionRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert conversion record: %w", err)
	}
	return nil
}

// Update replaces an existing conversion record
func (r *mongoConversionRepository) Update(ctx context.Context, record *models.ConversionRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record ID is required for update")
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return fmt.Errorf("failed to update conversion record: %w", err)
	}
	return nil
}

// FindByID finds a conversion record by its ID
func (r *mongoConversionRepository) FindByID(ctx context.Context, id string) (*models.ConversionRecord, error) {
	var record models.ConversionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversion record: %w", err)
	}
	return &record, nil
}

// FindConversion finds the newest record for a (playlist, target) pair
func (r *mongoConversionRepository) FindConversion(ctx context.Context, playlistID, targetCatalog string) (*models.ConversionRecord, error) {
	filter := bson.M{
		"source_playlist_id": playlistID,
		"target_catalog":     targetCatalog,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var record models.ConversionRecord
	err := r.collection.FindOne(ctx, filter, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversion: %w", err)
	}
	return &record, nil
}
