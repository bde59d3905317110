package role

import (
	"strings"

	"github.com/atlas-hq/atlas-admin/pkg/constants"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

type CreateDTO struct {
	Name        string          `json:"name" validate:"required,max=64"`
	Description string          `json:"description" validate:"max=255"`
	DataScope   datascope.Scope `json:"dataScope" validate:"required"`
	Permissions []string        `json:"permissions"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	return serrors.FieldErrors(err), err == nil
}

// UpdateDTO carries only the fields present in the request; nil means keep.
type UpdateDTO struct {
	Name        *string          `json:"name" validate:"omitempty,max=64"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	DataScope   *datascope.Scope `json:"dataScope"`
	Permissions *[]string        `json:"permissions"`
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	err := constants.Validate.Struct(d)
	return serrors.FieldErrors(err), err == nil
}
