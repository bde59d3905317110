package organization

import (
	"strings"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/constants"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

type CreateDTO struct {
	Name      string     `json:"name" validate:"required,max=128"`
	Code      string     `json:"code" validate:"required,max=32"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order" validate:"gte=0"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.TrimSpace(d.Code)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// UpdateDTO carries partial display-field updates; nil means keep current.
// Re-parenting goes through the dedicated move operation instead.
type UpdateDTO struct {
	Name      *string `json:"name" validate:"omitempty,max=128"`
	Code      *string `json:"code" validate:"omitempty,max=32"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

// MoveDTO names the new parent; nil promotes the node to a root.
type MoveDTO struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

func validateStruct(v any) (map[string]string, bool) {
	err := constants.Validate.Struct(v)
	return serrors.FieldErrors(err), err == nil
}
