// internal/interface/repository/mongo_kv_store.go
package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKVStore implements the KVStore interface on a MongoDB collection.
// Each key maps to one document holding the value as JSON text.
type MongoKVStore struct {
	collection *mongo.Collection
}

type kvDocument struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoKVStore creates a new MongoDB key-value store
func NewMongoKVStore(db *mongo.Database) repository.KVStore {
	collection := db.Collection("kv_store")

	// Create unique index on key
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"key": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoKVStore{
		collection: collection,
	}
}

// Get returns the value stored under key, with false when the key is absent
func (s *MongoKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(doc.Value), true, nil
}

// Set writes the value under key, creating or replacing it
func (s *MongoKVStore) Set(ctx context.Context, key string, value []byte) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"value":     string(value),
			"updatedAt": time.Now(),
		}},
		opts,
	)
	return err
}

// Delete removes the value stored under key
func (s *MongoKVStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"key": key})
	return err
}
