package entities

import "time"

// ProposalStatus is the lifecycle state of a proposed change.
// pending -> approved | rejected; terminal states are final.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalApproved || s == ProposalRejected
}

// ProposedChange is a staging document describing an intended mutation to
// canonical truth. Any non-canon-authoritative agent may submit one; only the
// loremaster transitions its status, and only an approved proposal may feed a
// subsequent canonical write.
type ProposedChange struct {
	ID          string         `json:"id" bson:"_id"`
	UniverseID  string         `json:"universe_id" bson:"universe_id"`
	SubmittedBy string         `json:"submitted_by" bson:"submitted_by"`
	Operation   string         `json:"operation" bson:"operation"`
	Payload     map[string]any `json:"payload" bson:"payload"`
	Evidence    []string       `json:"evidence,omitempty" bson:"evidence,omitempty"`
	Status      ProposalStatus `json:"status" bson:"status"`
	ReviewedBy  string         `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewNote  string         `json:"review_note,omitempty" bson:"review_note,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}
