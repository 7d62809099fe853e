package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tunebridge/internal/models"
)

// mongoSongRepository implements SongRepository using MongoDB
type mongoSongRepository struct {
	collection *mongo.Collection
}

// NewMongoSongRepository creates a MongoDB-backed song repository
func NewMongoSongRepository(db *models.Database) SongRepository {
	return &mongoSongRepository{
		collection: db.DB.Collection("songs"),
	}
}

// Upsert saves a song keyed by its catalog identity
func (r *mongoSongRepository) Upsert(ctx context.Context, song *models.Song) error {
	song.SchemaVersion = models.CurrentSchemaVersion
	song.UpdatedAt = time.Now()
	if song.ID.IsZero() {
		song.ID = primitive.NewObjectID()
		song.CreatedAt = song.UpdatedAt
	}

	filter := bson.M{
		"catalog":          song.Catalog,
		"catalog_track_id": song.CatalogTrackID,
	}
	update := bson.M{"$set": song}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert song: %w", err)
	}
	return nil
}

// FindByCatalogTrackID finds a song by its catalog identity
func (r *mongoSongRepository) FindByCatalogTrackID(ctx context.Context, catalog, trackID string) (*models.Song, error) {
	filter := bson.M{
		"catalog":          catalog,
		"catalog_track_id": trackID,
	}

	var song models.Song
	err := r.collection.FindOne(ctx, filter).Decode(&song)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find song by catalog ID: %w", err)
	}
	return &song, nil
}

// FindMany returns songs by their IDs
func (r *mongoSongRepository) FindMany(ctx context.Context, ids []string) ([]*models.Song, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find songs: %w", err)
	}
	defer cursor.Close(ctx)

	var songs []*models.Song
	for cursor.Next(ctx) {
		var song models.Song
		if err := cursor.Decode(&song); err != nil {
			return nil, fmt.Errorf("failed to decode song: %w", err)
		}
		s := song
		songs = append(songs, &s)
	}
	return songs, cursor.Err()
}
