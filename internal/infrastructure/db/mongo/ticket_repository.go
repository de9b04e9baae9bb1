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

const collectionTickets = "tickets"

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

// Create inserts a new ticket document.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	return err
}

// FindByUUID retrieves a ticket by uuid. The lookup is deliberately unscoped;
// visibility is the service layer's call.
func (r *TicketRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Ticket
	err := r.col.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tickets matching the scope filter, newest first.
func (r *TicketRepository) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, scopeFilter(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tickets := []*domain.Ticket{}
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Update applies the field set and reports the number of documents modified.
func (r *TicketRepository) Update(ctx context.Context, uuid string, set map[string]any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"uuid": uuid}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrTicketNotFound
	}
	return res.ModifiedCount, nil
}

// Delete removes a ticket document.
func (r *TicketRepository) Delete(ctx context.Context, uuid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"uuid": uuid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// Count returns the number of tickets in scope.
func (r *TicketRepository) Count(ctx context.Context, filter ports.TicketFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, scopeFilter(filter))
}

// CountByPriority groups scoped tickets by priority server-side.
func (r *TicketRepository) CountByPriority(ctx context.Context, filter ports.TicketFilter) (map[domain.TicketPriority]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: scopeFilter(filter)}},
		{{Key: "$group", Value: bson.M{"_id": "$priority", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[domain.TicketPriority]int64{}
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[domain.TicketPriority(row.ID)] = row.Count
	}
	return out, cur.Err()
}

// CountByAssignee groups scoped tickets by assigned technician, excluding
// unassigned tickets.
func (r *TicketRepository) CountByAssignee(ctx context.Context, filter ports.TicketFilter) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := scopeFilter(filter)
	match["assigned_tech"] = bson.M{"$nin": bson.A{nil, ""}}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$assigned_tech", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes the scope filters query on.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uuid", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_manager", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_tech", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// scopeFilter translates the role-scope filter into a mongo query. DueDate
// matches the whole UTC calendar day.
func scopeFilter(f ports.TicketFilter) bson.M {
	q := bson.M{}
	if f.Author != "" {
		q["author"] = f.Author
	}
	if f.AssignedManager != "" {
		q["assigned_manager"] = f.AssignedManager
	}
	if f.AssignedTech != "" {
		q["assigned_tech"] = f.AssignedTech
	}
	if !f.DueDate.IsZero() {
		day := time.Date(f.DueDate.Year(), f.DueDate.Month(), f.DueDate.Day(), 0, 0, 0, 0, time.UTC)
		q["due_date"] = bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}
	}
	return q
}
