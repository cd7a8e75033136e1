package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"secure-shop/audit"
)

// AuditStore is the Mongo-backed audit sink. Entries go into the "audit_logs"
// collection and are never updated or deleted.
type AuditStore struct {
	col *mongo.Collection
}

// NewAuditStore creates an AuditStore over db.
func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{col: db.Collection("audit_logs")}
}

// Record implements audit.Sink.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}
