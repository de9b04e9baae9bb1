package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

const collectionProjects = "productprojects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

// Create inserts a new product/project document.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.ProductProject) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

// FindByUUID retrieves a project by uuid.
func (r *ProjectRepository) FindByUUID(ctx context.Context, uuid string) (*domain.ProductProject, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.ProductProject
	err := r.col.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns projects matching the scope filter.
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.ProductProject, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, projectFilter(filter),
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	projects := []*domain.ProductProject{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update applies the field set and reports the number of documents modified.
func (r *ProjectRepository) Update(ctx context.Context, uuid string, set map[string]any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"uuid": uuid}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrProjectNotFound
	}
	return res.ModifiedCount, nil
}

// Delete removes a project document.
func (r *ProjectRepository) Delete(ctx context.Context, uuid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"uuid": uuid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Count returns the number of projects in scope.
func (r *ProjectRepository) Count(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, projectFilter(filter))
}

// NamesByUUIDs resolves uuids to display names in a single query.
func (r *ProjectRepository) NamesByUUIDs(ctx context.Context, uuids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(uuids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"uuid": bson.M{"$in": uuids}},
		options.Find().SetProjection(bson.M{"uuid": 1, "name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			UUID string `bson:"uuid"`
			Name string `bson:"name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.UUID] = row.Name
	}
	return out, cur.Err()
}

// EnsureIndexes creates the uuid and pic lookup indexes.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uuid", Value: 1}}},
		{Keys: bson.D{{Key: "pic", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func projectFilter(f ports.ProjectFilter) bson.M {
	q := bson.M{}
	if f.PIC != "" {
		q["pic"] = f.PIC
	}
	return q
}
