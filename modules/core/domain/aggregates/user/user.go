package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder attached to exactly one organization.
type User struct {
	id        uuid.UUID
	username  string
	fullName  string
	email     string
	orgID     uuid.UUID
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

func New(username, fullName, email string, orgID uuid.UUID) User {
	now := time.Now()
	return User{
		id:        uuid.New(),
		username:  username,
		fullName:  fullName,
		email:     email,
		orgID:     orgID,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}
}

func Hydrate(
	id uuid.UUID,
	username, fullName, email string,
	orgID uuid.UUID,
	active bool,
	createdAt, updatedAt time.Time,
) User {
	return User{
		id:        id,
		username:  username,
		fullName:  fullName,
		email:     email,
		orgID:     orgID,
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u User) ID() uuid.UUID        { return u.id }
func (u User) Username() string     { return u.username }
func (u User) FullName() string     { return u.fullName }
func (u User) Email() string        { return u.email }
func (u User) OrgID() uuid.UUID     { return u.orgID }
func (u User) Active() bool         { return u.active }
func (u User) CreatedAt() time.Time { return u.createdAt }
func (u User) UpdatedAt() time.Time { return u.updatedAt }

func (u User) IsZero() bool { return u.id == uuid.Nil }

// WithOrg returns a copy reassigned to another organization.
func (u User) WithOrg(orgID uuid.UUID) User {
	u.orgID = orgID
	u.updatedAt = time.Now()
	return u
}
