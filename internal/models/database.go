package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database represents the database connection
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, mongoURL, dbName string) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetMaxPoolSize(20).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &Database{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// CreateIndexes creates necessary indexes for optimal performance.
// The partial unique index on conversions is what makes the duplicate
// check atomic with record creation: a second insert for the same
// (playlist, target) pair fails at the database while any non-failed
// record exists.
func (d *Database) CreateIndexes(ctx context.Context) error {
	conversions := d.DB.Collection("conversions")

	conversionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source_playlist_id", Value: 1},
				{Key: "target_catalog", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{
						string(ConversionPending),
						string(ConversionProcessing),
						string(ConversionCompleted),
					}},
				}),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
	}

	if _, err := conversions.Indexes().CreateMany(ctx, conversionIndexes); err != nil {
		return err
	}

	songs := d.DB.Collection("songs")
	songIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "catalog", Value: 1},
				{Key: "catalog_track_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "title", Value: 1}, {Key: "artist", Value: 1}},
		},
	}

	if _, err := songs.Indexes().CreateMany(ctx, songIndexes); err != nil {
		return err
	}

	playlists := d.DB.Collection("playlists")
	playlistIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}},
		},
	}

	_, err := playlists.Indexes().CreateMany(ctx, playlistIndexes)
	return err
}
