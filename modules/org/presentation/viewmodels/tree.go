package viewmodels

import "github.com/google/uuid"

// OrgNode is the nested tree shape returned by the organizations API.
type OrgNode struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Path      string     `json:"path"`
	Level     int        `json:"level"`
	SortOrder int        `json:"sort_order"`
	Children  []*OrgNode `json:"children"`
}
