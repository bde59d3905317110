package mappers

import (
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/modules/core/presentation/viewmodels"
)

func RoleToViewModel(r role.Role) viewmodels.Role {
	perms := r.Permissions()
	if perms == nil {
		perms = []string{}
	}
	return viewmodels.Role{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		DataScope:   r.DataScope().String(),
		IsSystem:    r.IsSystem(),
		Permissions: perms,
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func RolesToViewModels(roles []role.Role) []viewmodels.Role {
	out := make([]viewmodels.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleToViewModel(r))
	}
	return out
}

func UserToViewModel(u user.User) viewmodels.User {
	return viewmodels.User{
		ID:        u.ID(),
		Username:  u.Username(),
		FullName:  u.FullName(),
		Email:     u.Email(),
		OrgID:     u.OrgID(),
		Active:    u.Active(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func UsersToViewModels(users []user.User) []viewmodels.User {
	out := make([]viewmodels.User, 0, len(users))
	for _, u := range users {
		out = append(out, UserToViewModel(u))
	}
	return out
}
