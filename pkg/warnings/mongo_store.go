package warnings

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding warning records
const CollectionName = "warnings"

// MongoStore keeps each record as one document whose lines array is
// appended with $push, so every append is a single-document atomic write.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a MongoStore over collection
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// Append pushes line onto the key's document, creating it if needed
func (s *MongoStore) Append(ctx context.Context, key, line string) error {
	if s.collection == nil {
		return errors.New("database not connected")
	}
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$push": bson.M{"lines": line}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("pushing warning: %w", err)
	}
	return nil
}

// Lines returns the key's lines in append order
func (s *MongoStore) Lines(ctx context.Context, key string) ([]string, error) {
	if s.collection == nil {
		return nil, errors.New("database not connected")
	}
	var doc models.WarningDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding warnings: %w", err)
	}
	if len(doc.Lines) == 0 {
		return nil, ErrNotFound
	}
	return doc.Lines, nil
}
