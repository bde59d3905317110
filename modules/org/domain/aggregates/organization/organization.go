package organization

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Organization is a node in the organization tree. The path and level fields
// are derived from the parent edge and maintained by the tree service; the
// parent id stays the authoritative ownership edge.
type Organization struct {
	id        uuid.UUID
	name      string
	code      string
	parentID  *uuid.UUID
	path      string
	level     int
	sortOrder int
	createdAt time.Time
	updatedAt time.Time
}

func New(name, code string, parentID *uuid.UUID, sortOrder int) Organization {
	return Organization{
		name:      strings.TrimSpace(name),
		code:      strings.TrimSpace(code),
		parentID:  cloneID(parentID),
		sortOrder: sortOrder,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	code string,
	parentID *uuid.UUID,
	path string,
	level int,
	sortOrder int,
	createdAt time.Time,
	updatedAt time.Time,
) Organization {
	return Organization{
		id:        id,
		name:      strings.TrimSpace(name),
		code:      strings.TrimSpace(code),
		parentID:  cloneID(parentID),
		path:      path,
		level:     level,
		sortOrder: sortOrder,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o Organization) ID() uuid.UUID        { return o.id }
func (o Organization) Name() string         { return o.name }
func (o Organization) Code() string         { return o.code }
func (o Organization) ParentID() *uuid.UUID { return cloneID(o.parentID) }
func (o Organization) Path() string         { return o.path }
func (o Organization) Level() int           { return o.level }
func (o Organization) SortOrder() int       { return o.sortOrder }
func (o Organization) CreatedAt() time.Time { return o.createdAt }
func (o Organization) UpdatedAt() time.Time { return o.updatedAt }
func (o Organization) IsZero() bool         { return o.id == uuid.Nil && o.code == "" }
func (o Organization) IsRoot() bool         { return o.parentID == nil }

// WithDetails returns a copy with the display fields replaced.
func (o Organization) WithDetails(name, code string, sortOrder int) Organization {
	out := o
	out.name = strings.TrimSpace(name)
	out.code = strings.TrimSpace(code)
	out.sortOrder = sortOrder
	return out
}

// WithPlacement returns a copy relocated in the tree. Path and level must
// have been computed from the new parent.
func (o Organization) WithPlacement(parentID *uuid.UUID, path string, level int) Organization {
	out := o
	out.parentID = cloneID(parentID)
	out.path = path
	out.level = level
	return out
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
