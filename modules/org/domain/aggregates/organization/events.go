package organization

import "github.com/google/uuid"

// CreatedEvent fires after an organization is inserted and placed.
type CreatedEvent struct {
	Result Organization
}

// MovedEvent fires after a subtree relocation completes. Rewritten is the
// number of descendant rows whose placement changed.
type MovedEvent struct {
	Result    Organization
	OldPath   string
	Rewritten int
}

// DeletedEvent fires after a leaf node is removed.
type DeletedEvent struct {
	ID uuid.UUID
}
