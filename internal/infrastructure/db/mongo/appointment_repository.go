package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	VetID     string             `bson:"vet_id"`
	Status    string             `bson:"status"`
	Date      time.Time          `bson:"date"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		VetID:     d.VetID,
		Status:    domain.AppointmentStatus(d.Status),
		Date:      d.Date.UTC(),
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := appointmentDoc{
		ID:        primitive.NewObjectID(),
		UserID:    a.UserID,
		VetID:     a.VetID,
		Status:    string(a.Status),
		Date:      a.Date,
		Version:   1,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	a.ID = doc.ID.Hex()
	a.Version = doc.Version
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) ListByCustomer(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *AppointmentRepository) ListByVet(ctx context.Context, vetID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"vet_id": vetID})
}

func (r *AppointmentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	var docs []appointmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]*domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update writes status, date and updated_at; the participants are fixed at
// booking.
func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAppointmentNotFound
	}

	set := bson.M{
		"status":     string(a.Status),
		"date":       a.Date,
		"updated_at": a.UpdatedAt,
	}
	if err := updateVersioned(ctx, r.col, oid, a.Version, set, domain.ErrAppointmentNotFound); err != nil {
		return err
	}
	a.Version++
	return nil
}

func (r *AppointmentRepository) CountByParticipant(ctx context.Context, userID string) (int64, error) {
	return count(ctx, r.col, bson.M{"$or": bson.A{
		bson.M{"user_id": userID},
		bson.M{"vet_id": userID},
	}})
}

// EnsureIndexes creates the per-participant lookup indexes.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "vet_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
