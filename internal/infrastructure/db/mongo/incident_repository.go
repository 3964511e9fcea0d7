package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

const incidentsCollection = "incidents"

type IncidentRepository struct {
	coll *mongo.Collection
}

func NewIncidentRepository(db *mongo.Database) *IncidentRepository {
	return &IncidentRepository{coll: db.Collection(incidentsCollection)}
}

type mongoIncident struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Location    string             `bson:"location,omitempty"`
	Status      string             `bson:"status"`
	Severity    string             `bson:"severity"`
	Reporter    string             `bson:"reporter"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (mi mongoIncident) toDomain() *domain.Incident {
	return &domain.Incident{
		ID:          mi.ID.Hex(),
		Title:       mi.Title,
		Description: mi.Description,
		Location:    mi.Location,
		Status:      mi.Status,
		Severity:    mi.Severity,
		ReporterID:  mi.Reporter,
		CreatedAt:   mi.CreatedAt.UTC(),
	}
}

func (r *IncidentRepository) Create(ctx context.Context, inc *domain.Incident) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIncident{
		Title:       inc.Title,
		Description: inc.Description,
		Location:    inc.Location,
		Status:      inc.Status,
		Severity:    inc.Severity,
		Reporter:    inc.ReporterID,
		CreatedAt:   inc.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}

	inc.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*domain.Incident, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIncidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoIncident
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("find incident: %w", err)
	}
	return mi.toDomain(), nil
}

// List returns all incidents sorted by creation time descending.
func (r *IncidentRepository) List(ctx context.Context) ([]*domain.Incident, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Incident
	for cur.Next(ctx) {
		var mi mongoIncident
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode incident: %w", err)
		}
		out = append(out, mi.toDomain())
	}
	return out, cur.Err()
}

func (r *IncidentRepository) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIncidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update incident status: %w", err)
	}
	return nil
}

// Delete removes the incident by id. A malformed or unknown id is a no-op.
func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	return nil
}

func (r *IncidentRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// TopLocation groups all incidents by location and returns the largest
// group. Which group wins a tie is left to the aggregation's ordering.
func (r *IncidentRepository) TopLocation(ctx context.Context) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$location", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 1}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return "", 0, fmt.Errorf("aggregate top location: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Location string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return "", 0, fmt.Errorf("decode top location: %w", err)
		}
		return row.Location, row.Count, nil
	}
	return "", 0, cur.Err()
}

// EnsureIndexes creates the indexes backing the list sort and the analytics
// window count.
func (r *IncidentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reporter", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
