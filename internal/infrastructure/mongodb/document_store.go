package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docapp/internal/domain/backend"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore implements backend.DocumentStore on a MongoDB database.
// ServerTimestamp fields take this process's clock.
type DocumentStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewDocumentStore(client *mongo.Client, database string) *DocumentStore {
	return &DocumentStore{db: client.Database(database), now: time.Now}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (backend.Fields, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return toFields(raw), nil
}

// Set replaces the whole document, inserting it when absent
func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields backend.Fields) error {
	doc := bson.M{}
	for k, v := range backend.ResolveServerTimestamps(fields, s.now().UTC()) {
		doc[k] = v
	}
	doc["_id"] = id

	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) Query(ctx context.Context, collection, field string, value any) ([]backend.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to read %s query results: %w", collection, err)
	}

	docs := make([]backend.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, backend.Document{ID: documentID(raw["_id"]), Fields: toFields(raw)})
	}
	return docs, nil
}

func toFields(raw bson.M) backend.Fields {
	fields := make(backend.Fields, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}
	return fields
}

// documentID renders _id as a string; documents written by other tools may
// use ObjectIDs.
func documentID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}
