package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// MongoStore is the primary passage store backed by a Mongo text index.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to Mongo, verifies the connection, and ensures
// the text index used by TextSearch exists.
func NewMongoStore(ctx context.Context, cfg model.StoreConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := s.ensureTextIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure text index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureTextIndex(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "section", Value: "text"},
			{Key: "text", Value: "text"},
			{Key: "body.text", Value: "text"},
		},
		Options: options.Index().SetName("law_text_index"),
	})
	// An equivalent index may already exist with different options.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == 85 { // IndexOptionsConflict
			return nil
		}
		return err
	}
	return nil
}

// FetchAllPassages returns every stored passage.
func (s *MongoStore) FetchAllPassages(ctx context.Context) ([]model.Passage, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find passages: %w", err)
	}
	defer cursor.Close(ctx)

	var passages []model.Passage
	if err := cursor.All(ctx, &passages); err != nil {
		return nil, fmt.Errorf("decode passages: %w", err)
	}
	return passages, nil
}

// TextSearch runs a Mongo $text query sorted by text score.
func (s *MongoStore) TextSearch(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	defer cursor.Close(ctx)

	var passages []model.Passage
	if err := cursor.All(ctx, &passages); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return passages, nil
}

// Insert adds one passage to the collection.
func (s *MongoStore) Insert(ctx context.Context, p model.Passage) error {
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert passage: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
