package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/oauth2"
)

// UserCredential is a stored OAuth credential for one (user, catalog) pair
type UserCredential struct {
	UserID       string    `bson:"user_id"`
	Catalog      string    `bson:"catalog"`
	AccessToken  string    `bson:"access_token"`
	RefreshToken string    `bson:"refresh_token,omitempty"`
	ExpiresAt    time.Time `bson:"expires_at,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (c *UserCredential) expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt.Add(-time.Minute))
}

// MongoTokenProvider resolves user credentials from Mongo and refreshes
// expired ones transparently when the catalog has a registered OAuth
// endpoint and the credential carries a refresh token. A user with no
// stored credential, or an expired one that cannot be refreshed, resolves
// to an empty token with a nil error; the caller decides what that means.
type MongoTokenProvider struct {
	collection *mongo.Collection
	endpoints  map[string]*oauth2.Config
	mu         sync.Mutex
}

// NewMongoTokenProvider creates a token provider over the given database
func NewMongoTokenProvider(db *mongo.Database) *MongoTokenProvider {
	return &MongoTokenProvider{
		collection: db.Collection("user_credentials"),
		endpoints:  make(map[string]*oauth2.Config),
	}
}

// RegisterEndpoint enables transparent refresh for a catalog's credentials
func (p *MongoTokenProvider) RegisterEndpoint(catalog string, conf *oauth2.Config) {
	p.endpoints[catalog] = conf
}

// AccessToken returns a usable access token for the user on the given
// catalog, refreshing and persisting it first when expired
func (p *MongoTokenProvider) AccessToken(ctx context.Context, userID, catalog string) (string, error) {
	var credential UserCredential
	err := p.collection.FindOne(ctx, bson.M{"user_id": userID, "catalog": catalog}).Decode(&credential)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	if !credential.expired() {
		return credential.AccessToken, nil
	}

	return p.refresh(ctx, &credential)
}

// SaveCredential stores or replaces a user's credential for a catalog
func (p *MongoTokenProvider) SaveCredential(ctx context.Context, credential *UserCredential) error {
	credential.UpdatedAt = time.Now()
	_, err := p.collection.ReplaceOne(ctx,
		bson.M{"user_id": credential.UserID, "catalog": credential.Catalog},
		credential,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (p *MongoTokenProvider) refresh(ctx context.Context, credential *UserCredential) (string, error) {
	conf := p.endpoints[credential.Catalog]
	if conf == nil || credential.RefreshToken == "" {
		return "", nil
	}

	// Serialize refreshes so two conversions for the same user don't burn
	// the same refresh token twice.
	p.mu.Lock()
	defer p.mu.Unlock()

	source := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		Expiry:       credential.ExpiresAt,
	})
	token, err := source.Token()
	if err != nil {
		slog.Warn("Credential refresh failed",
			"user_id", credential.UserID,
			"catalog", credential.Catalog,
			"error", err)
		return "", nil
	}

	credential.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		credential.RefreshToken = token.RefreshToken
	}
	credential.ExpiresAt = token.Expiry
	if err := p.SaveCredential(ctx, credential); err != nil {
		slog.Warn("Failed to persist refreshed credential",
			"user_id", credential.UserID,
			"catalog", credential.Catalog,
			"error", err)
	}

	return token.AccessToken, nil
}

// StaticTokenProvider serves fixed tokens keyed by catalog, for development
// and tests
type StaticTokenProvider map[string]string

func (p StaticTokenProvider) AccessToken(_ context.Context, _, catalog string) (string, error) {
	return p[catalog], nil
}
