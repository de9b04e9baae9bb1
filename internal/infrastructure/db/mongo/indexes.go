package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes builds every index the repositories rely on. Run once at
// startup; index creation is idempotent on the Mongo side.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, ensure := range map[string]func(context.Context) error{
		"users":            NewUserRepository(db).EnsureIndexes,
		"tickets":          NewTicketRepository(db).EnsureIndexes,
		"ticket_responses": NewResponseRepository(db).EnsureIndexes,
		"productprojects":  NewProjectRepository(db).EnsureIndexes,
		"ticket_events":    NewAuditRepository(db).EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}
	return nil
}
