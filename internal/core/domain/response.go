package domain

import "time"

// TicketResponse is the single closing response attached to a ticket. At most
// one response exists per ticket; creating one forces the parent ticket to
// done, atomically with the response's persistence.
type TicketResponse struct {
	UUID        string      `json:"uuid" bson:"uuid"`
	TicketID    string      `json:"ticket_id" bson:"ticket_id"`
	Author      string      `json:"author" bson:"author"`
	InsertLink  string      `json:"insert_link" bson:"insert_link"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Attachment  *Attachment `json:"-" bson:"attachment,omitempty"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}
