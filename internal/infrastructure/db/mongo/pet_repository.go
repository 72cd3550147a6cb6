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

const collectionPets = "pets"

type PetRepository struct {
	col *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{col: db.Collection(collectionPets)}
}

type petDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Species   string             `bson:"species"`
	Breed     string             `bson:"breed"`
	Age       int                `bson:"age"`
	Price     float64            `bson:"price"`
	SellerID  string             `bson:"seller_id"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d petDoc) toDomain() *domain.Pet {
	return &domain.Pet{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Species:   d.Species,
		Breed:     d.Breed,
		Age:       d.Age,
		Price:     d.Price,
		SellerID:  d.SellerID,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *PetRepository) Create(ctx context.Context, p *domain.Pet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := petDoc{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Price:     p.Price,
		SellerID:  p.SellerID,
		Version:   1,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}

	p.ID = doc.ID.Hex()
	p.Version = doc.Version
	return nil
}

func (r *PetRepository) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc petDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPetNotFound
		}
		return nil, fmt.Errorf("find pet: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PetRepository) List(ctx context.Context) ([]*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	var docs []petDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pets: %w", err)
	}

	out := make([]*domain.Pet, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PetRepository) Update(ctx context.Context, p *domain.Pet) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrPetNotFound
	}

	set := bson.M{
		"name":       p.Name,
		"species":    p.Species,
		"breed":      p.Breed,
		"age":        p.Age,
		"price":      p.Price,
		"updated_at": p.UpdatedAt,
	}
	if err := updateVersioned(ctx, r.col, oid, p.Version, set, domain.ErrPetNotFound); err != nil {
		return err
	}
	p.Version++
	return nil
}

func (r *PetRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrPetNotFound)
}

func (r *PetRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	return count(ctx, r.col, bson.M{"seller_id": sellerID})
}

func (r *PetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "seller_id", Value: 1}}})
	return err
}
