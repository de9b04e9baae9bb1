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

const collectionResponses = "ticket_responses"

type ResponseRepository struct {
	col     *mongo.Collection
	tickets *mongo.Collection
	client  *mongo.Client
}

func NewResponseRepository(db *mongo.Database) *ResponseRepository {
	return &ResponseRepository{
		col:     db.Collection(collectionResponses),
		tickets: db.Collection(collectionTickets),
		client:  db.Client(),
	}
}

// FindByUUID retrieves a response by uuid.
func (r *ResponseRepository) FindByUUID(ctx context.Context, uuid string) (*domain.TicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var resp domain.TicketResponse
	err := r.col.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&resp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResponseNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// FindByTicketID retrieves the response attached to a ticket, if any.
func (r *ResponseRepository) FindByTicketID(ctx context.Context, ticketUUID string) (*domain.TicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var resp domain.TicketResponse
	err := r.col.FindOne(ctx, bson.M{"ticket_id": ticketUUID}).Decode(&resp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResponseNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// List returns responses in scope. The transitive ticket-author and
// ticket-manager scopes join through the tickets collection with $lookup.
func (r *ResponseRepository) List(ctx context.Context, filter ports.ResponseFilter) ([]*domain.TicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if filter.TicketAuthor == "" && filter.TicketManager == "" {
		q := bson.M{}
		if filter.Author != "" {
			q["author"] = filter.Author
		}
		cur, err := r.col.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		responses := []*domain.TicketResponse{}
		if err := cur.All(ctx, &responses); err != nil {
			return nil, err
		}
		return responses, nil
	}

	ticketMatch := bson.M{}
	if filter.TicketAuthor != "" {
		ticketMatch["ticket.author"] = filter.TicketAuthor
	}
	if filter.TicketManager != "" {
		ticketMatch["ticket.assigned_manager"] = filter.TicketManager
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionTickets,
			"localField":   "ticket_id",
			"foreignField": "uuid",
			"as":           "ticket",
		}}},
		{{Key: "$unwind", Value: "$ticket"}},
		{{Key: "$match", Value: ticketMatch}},
		{{Key: "$unset", Value: "ticket"}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	responses := []*domain.TicketResponse{}
	if err := cur.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateAndCloseTicket persists the response and transitions its parent to
// done in one transaction, so a response never exists beside a stale ticket
// status.
func (r *ResponseRepository) CreateAndCloseTicket(ctx context.Context, resp *domain.TicketResponse, closedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.col.InsertOne(sc, resp); err != nil {
			return nil, err
		}
		res, err := r.tickets.UpdateOne(sc,
			bson.M{"uuid": resp.TicketID},
			bson.M{"$set": bson.M{
				"status":           string(domain.StatusDone),
				"issue_fixed_date": closedAt,
				"updated_at":       closedAt,
			}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrTicketNotFound
		}
		return nil, nil
	})
	return err
}

// Update applies the field set and reports the number of documents modified.
func (r *ResponseRepository) Update(ctx context.Context, uuid string, set map[string]any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"uuid": uuid}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrResponseNotFound
	}
	return res.ModifiedCount, nil
}

// Delete removes a response document.
func (r *ResponseRepository) Delete(ctx context.Context, uuid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"uuid": uuid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrResponseNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the one-response-per-ticket
// invariant and the scope queries. The ticket_id index is unique: even a
// racing second insert loses.
func (r *ResponseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uuid", Value: 1}}},
		{
			Keys:    bson.D{{Key: "ticket_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
