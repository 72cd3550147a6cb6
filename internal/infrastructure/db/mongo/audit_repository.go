package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

const collectionAudit = "audit_events"

// AuditRepository appends authorization decisions to the audit_events
// collection. Documents are never updated.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ActorID    string             `bson:"actor_id"`
	ActorRole  string             `bson:"actor_role"`
	Action     string             `bson:"action"`
	Resource   string             `bson:"resource"`
	ResourceID string             `bson:"resource_id,omitempty"`
	Outcome    string             `bson:"outcome"`
	Reason     string             `bson:"reason,omitempty"`
	At         time.Time          `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDoc{
		ActorID:    e.ActorID,
		ActorRole:  string(e.ActorRole),
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Outcome:    string(e.Outcome),
		Reason:     e.Reason,
		At:         e.At,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
