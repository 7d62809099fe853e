package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tunebridge/internal/models"
)

// mongoPlaylistRepository implements PlaylistRepository using MongoDB
type mongoPlaylistRepository struct {
	playlists *mongo.Collection
	songs     *mongo.Collection
}

// NewMongoPlaylistRepository creates a MongoDB-backed playlist repository
func NewMongoPlaylistRepository(db *models.Database) PlaylistRepository {
	return &mongoPlaylistRepository{
		playlists: db.DB.Collection("playlists"),
		songs:     db.DB.Collection("songs"),
	}
}

// FindByID finds a playlist by its ID
func (r *mongoPlaylistRepository) FindByID(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.playlists.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find playlist: %w", err)
	}
	return &playlist, nil
}

// LoadSongs returns the playlist's songs preserving playlist order.
// Song IDs with no backing document are skipped.
func (r *mongoPlaylistRepository) LoadSongs(ctx context.Context, playlistID string) ([]*models.Song, error) {
	playlist, err := r.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, nil
	}
	if len(playlist.SongIDs) == 0 {
		return []*models.Song{}, nil
	}

	objectIDs := make([]primitive.ObjectID, 0, len(playlist.SongIDs))
	for _, id := range playlist.SongIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.songs.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist songs: %w", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[string]*models.Song, len(playlist.SongIDs))
	for cursor.Next(ctx) {
		var song models.Song
		if err := cursor.Decode(&song); err != nil {
			return nil, fmt.Errorf("failed to decode song: %w", err)
		}
		s := song
		byID[s.ID.Hex()] = &s
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error loading playlist songs: %w", err)
	}

	ordered := make([]*models.Song, 0, len(playlist.SongIDs))
	for _, id := range playlist.SongIDs {
		if song, ok := byID[id]; ok {
			ordered = append(ordered, song)
		}
	}
	return ordered, nil
}
