package domain

import "time"

// ProductProject is a product or project tickets are filed against. PIC is
// the manager responsible for it; every ticket created on the project is
// routed to the pic as assigned manager.
//
// Invariant: PIC always references a user whose role is exactly manager,
// re-validated whenever it is set (a user's role can change over the
// project's lifetime, so the check is never cached).
type ProductProject struct {
	UUID           string      `json:"uuid" bson:"uuid"`
	Name           string      `json:"name" bson:"name"`
	Description    string      `json:"description" bson:"description"`
	IssueType      IssueType   `json:"issue_type" bson:"issue_type"`
	PIC            string      `json:"pic" bson:"pic"`
	ProfilePicture *Attachment `json:"-" bson:"profile_picture,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}
