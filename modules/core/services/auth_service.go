package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// AuthService turns a user account into the datascope.Principal the rest of
// the system authorizes against.
type AuthService struct {
	users user.Repository
	roles role.Repository
	orgs  datascope.OrgDirectory
}

func NewAuthService(users user.Repository, roles role.Repository, orgs datascope.OrgDirectory) *AuthService {
	return &AuthService{users: users, roles: roles, orgs: orgs}
}

// ResolvePrincipal folds the user's roles into a single effective view: the
// permission set is the union across roles and the data scope is the least
// restrictive one held. A user with no roles authenticates but can act only
// on records they own.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (datascope.Principal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return datascope.Principal{}, err
	}
	if !u.Active() {
		return datascope.Principal{}, serrors.Forbidden("USER_INACTIVE", "account is disabled")
	}
	held, err := s.roles.FindByUser(ctx, u.ID())
	if err != nil {
		return datascope.Principal{}, err
	}

	scopes := make([]datascope.Scope, 0, len(held))
	var codes []string
	for _, r := range held {
		scopes = append(scopes, r.DataScope())
		codes = append(codes, r.Permissions()...)
	}

	orgPath, err := s.orgs.PathByID(ctx, u.OrgID())
	if err != nil {
		return datascope.Principal{}, err
	}

	p := datascope.Principal{
		ID:          u.ID(),
		OrgID:       u.OrgID(),
		OrgPath:     orgPath,
		Scope:       datascope.Fold(scopes),
		Permissions: datascope.NewPermissionSet(codes),
	}
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"user":  u.Username(),
		"scope": p.Scope,
		"roles": len(held),
	}).Debug("principal resolved")
	return p, nil
}
