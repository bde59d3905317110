package mappers

import (
	"github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	"github.com/atlas-hq/atlas-admin/modules/org/presentation/viewmodels"
)

func OrgToViewModel(org organization.Organization) viewmodels.Organization {
	return viewmodels.Organization{
		ID:        org.ID(),
		Name:      org.Name(),
		Code:      org.Code(),
		ParentID:  org.ParentID(),
		Path:      org.Path(),
		Level:     org.Level(),
		SortOrder: org.SortOrder(),
		CreatedAt: org.CreatedAt(),
		UpdatedAt: org.UpdatedAt(),
	}
}
