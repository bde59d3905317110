package user

import (
	"strings"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/constants"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

type CreateDTO struct {
	Username string    `json:"username" validate:"required,min=3,max=64"`
	FullName string    `json:"fullName" validate:"required,max=128"`
	Email    string    `json:"email" validate:"omitempty,email"`
	OrgID    uuid.UUID `json:"orgId" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	return serrors.FieldErrors(err), err == nil
}

// AssignRolesDTO replaces a user's role set.
type AssignRolesDTO struct {
	RoleIDs []uuid.UUID `json:"role_ids"`
}
