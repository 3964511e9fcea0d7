package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

const unitsCollection = "units"

type UnitRepository struct {
	coll *mongo.Collection
}

func NewUnitRepository(db *mongo.Database) *UnitRepository {
	return &UnitRepository{coll: db.Collection(unitsCollection)}
}

type mongoUnit struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Location string             `bson:"location,omitempty"`
	Status   string             `bson:"status"`
}

func (r *UnitRepository) Create(ctx context.Context, unit *domain.Unit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUnit{
		Name:     unit.Name,
		Location: unit.Location,
		Status:   unit.Status,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}

	unit.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// List returns all units sorted by name ascending.
func (r *UnitRepository) List(ctx context.Context) ([]*domain.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Unit
	for cur.Next(ctx) {
		var mu mongoUnit
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode unit: %w", err)
		}
		out = append(out, &domain.Unit{
			ID:       mu.ID.Hex(),
			Name:     mu.Name,
			Location: mu.Location,
			Status:   mu.Status,
		})
	}
	return out, cur.Err()
}

// Delete removes the unit by id. A malformed or unknown id is a no-op.
func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}
