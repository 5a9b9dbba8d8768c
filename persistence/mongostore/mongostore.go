// Package mongostore persists execution journals as one MongoDB document per
// execution, with entries appended via $push so the collection never needs
// read-modify-write of the full document to record a single new event.
package mongostore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ybird-labs/invariant-go/journal"
	"github.com/ybird-labs/invariant-go/persistence"
	"github.com/ybird-labs/invariant-go/promise"
)

// journalDocument is the MongoDB document representation of an execution's
// journal. Entries stores each entry's already-encoded wire form verbatim,
// so Append never has to decode-modify-reencode the document.
type journalDocument struct {
	ExecutionID string   `bson:"_id"`
	Entries     [][]byte `bson:"entries"`
}

// Store is a MongoDB implementation of persistence.Store.
type Store struct {
	collection *mongo.Collection
}

var _ persistence.Store = (*Store)(nil)

// New creates a Store backed by the given collection.
func New(collection *mongo.Collection) *Store {
	return &Store{collection: collection}
}

func documentID(executionID promise.ExecutionId) string {
	return hex.EncodeToString([]byte(executionID.Key()))
}

// Append encodes entry and pushes it onto the execution's document, creating
// the document on first append.
func (s *Store) Append(ctx context.Context, executionID promise.ExecutionId, entry journal.Entry) error {
	raw, err := persistence.EncodeEntry(entry)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": documentID(executionID)}
	update := bson.M{"$push": bson.M{"entries": raw}}
	opts := options.UpdateOne().SetUpsert(true)
	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("mongostore: append entry for execution %s: %w", executionID, err)
	}
	return nil
}

// Load retrieves and decodes the full journal for an execution.
func (s *Store) Load(ctx context.Context, executionID promise.ExecutionId) (*journal.ExecutionJournal, error) {
	var doc journalDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": documentID(executionID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("mongostore: load journal for execution %s: %w", executionID, err)
	}

	entries := make([]journal.Entry, len(doc.Entries))
	for i, raw := range doc.Entries {
		entry, err := persistence.DecodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("mongostore: decode entry %d for execution %s: %w", i, executionID, err)
		}
		entries[i] = entry
	}

	return &journal.ExecutionJournal{ExecutionID: executionID, Entries: entries}, nil
}
