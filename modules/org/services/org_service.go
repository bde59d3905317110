package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/eventbus"
	"github.com/atlas-hq/atlas-admin/pkg/orgpath"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

var orgListingColumns = datascope.Columns{Org: "id", OrgPath: "path"}

// OrgService owns the organization tree: it creates, relocates and deletes
// nodes while keeping the materialized path and level fields consistent with
// the parent edges. All structural checks run before any mutation.
type OrgService struct {
	repo       organization.Repository
	dependents organization.DependentCounter
	authz      *datascope.Facade
	publisher  eventbus.EventBus
}

func NewOrgService(repo organization.Repository, dependents organization.DependentCounter, authz *datascope.Facade, publisher eventbus.EventBus) *OrgService {
	return &OrgService{
		repo:       repo,
		dependents: dependents,
		authz:      authz,
		publisher:  publisher,
	}
}

// ListAccessible returns the organizations the principal's scope covers,
// unsorted; tree assembly and sibling ordering happen in the presentation
// mapper.
func (s *OrgService) ListAccessible(ctx context.Context, p datascope.Principal) ([]organization.Organization, error) {
	filter := s.authz.OrganizationFilter(p, orgListingColumns)
	return s.repo.FindByFilter(ctx, filter)
}

func (s *OrgService) GetByID(ctx context.Context, p datascope.Principal, id uuid.UUID) (organization.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return organization.Organization{}, err
	}
	if err := s.authz.AssertCanAccessOrg(ctx, p, id); err != nil {
		return organization.Organization{}, err
	}
	return org, nil
}

// Create inserts a node under the given parent, or as a new root when no
// parent is set. The path is computed after the insert because the id is
// assigned by storage.
func (s *OrgService) Create(ctx context.Context, p datascope.Principal, dto *organization.CreateDTO) (organization.Organization, error) {
	if dto == nil {
		return organization.Organization{}, serrors.BadRequest("ORG_INVALID_BODY", "missing body")
	}
	dto.Normalize()
	if dto.Name == "" || dto.Code == "" {
		return organization.Organization{}, serrors.BadRequest("ORG_INVALID_BODY", "name and code are required")
	}

	var created organization.Organization
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		parentPath := orgpath.Root
		level := 0
		if dto.ParentID != nil {
			parent, err := s.repo.GetByID(txCtx, *dto.ParentID)
			if err != nil {
				return err
			}
			if err := s.authz.AssertCanAccessOrg(txCtx, p, parent.ID()); err != nil {
				return err
			}
			parentPath = parent.Path()
			level = parent.Level() + 1
		}

		inserted, err := s.repo.Create(txCtx, organization.New(dto.Name, dto.Code, dto.ParentID, dto.SortOrder))
		if err != nil {
			return err
		}

		path := orgpath.ChildPath(parentPath, inserted.ID())
		created, err = s.repo.Update(txCtx, inserted.WithPlacement(dto.ParentID, path, level))
		return err
	})
	if err != nil {
		return organization.Organization{}, err
	}
	s.publisher.Publish(organization.CreatedEvent{Result: created})
	return created, nil
}

// Update changes display fields only; placement is untouched.
func (s *OrgService) Update(ctx context.Context, p datascope.Principal, id uuid.UUID, dto *organization.UpdateDTO) (organization.Organization, error) {
	if dto == nil {
		return organization.Organization{}, serrors.BadRequest("ORG_INVALID_BODY", "missing body")
	}

	var updated organization.Organization
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		org, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.authz.AssertCanMutateOrg(txCtx, p, id); err != nil {
			return err
		}

		name := org.Name()
		if dto.Name != nil {
			name = *dto.Name
		}
		code := org.Code()
		if dto.Code != nil {
			code = *dto.Code
		}
		sortOrder := org.SortOrder()
		if dto.SortOrder != nil {
			sortOrder = *dto.SortOrder
		}

		updated, err = s.repo.Update(txCtx, org.WithDetails(name, code, sortOrder))
		return err
	})
	if err != nil {
		return organization.Organization{}, err
	}
	return updated, nil
}

// Move relocates a node under a new parent (nil promotes it to a root) and
// rewrites the path and level of every descendant in the same transaction.
// Structural violations are rejected before anything is written.
func (s *OrgService) Move(ctx context.Context, p datascope.Principal, id uuid.UUID, newParentID *uuid.UUID) (organization.Organization, error) {
	if newParentID != nil && *newParentID == id {
		return organization.Organization{}, serrors.Conflict("ORG_SELF_PARENT", "an organization cannot be its own parent")
	}

	var moved organization.Organization
	var oldPath string
	rewritten := 0
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		node, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.authz.AssertCanMutateOrg(txCtx, p, id); err != nil {
			return err
		}

		newParentPath := orgpath.Root
		newLevel := 0
		if newParentID != nil {
			parent, err := s.repo.GetByID(txCtx, *newParentID)
			if err != nil {
				return err
			}
			if err := s.authz.AssertCanMutateOrg(txCtx, p, parent.ID()); err != nil {
				return err
			}
			if orgpath.IsDescendantOrSelf(parent.Path(), node.Path()) {
				return serrors.Conflict("ORG_CYCLE", "cannot move an organization into its own subtree")
			}
			newParentPath = parent.Path()
			newLevel = parent.Level() + 1
		}

		newPath := orgpath.ChildPath(newParentPath, node.ID())
		if newPath == node.Path() {
			moved = node
			return nil
		}
		levelOffset := newLevel - node.Level()

		subtree, err := s.repo.FindByPathPrefix(txCtx, node.Path())
		if err != nil {
			return err
		}

		changes := make([]organization.PlacementChange, 0, len(subtree))
		for _, descendant := range subtree {
			if descendant.ID() == node.ID() {
				continue
			}
			suffix := strings.TrimPrefix(descendant.Path(), node.Path())
			changes = append(changes, organization.PlacementChange{
				ID:    descendant.ID(),
				Path:  newPath + suffix,
				Level: descendant.Level() + levelOffset,
			})
		}

		moved, err = s.repo.Update(txCtx, node.WithPlacement(newParentID, newPath, newLevel))
		if err != nil {
			return err
		}
		oldPath = node.Path()
		rewritten = len(changes)
		return s.repo.UpdatePlacements(txCtx, changes)
	})
	if err != nil {
		return organization.Organization{}, err
	}
	if oldPath != "" {
		s.publisher.Publish(organization.MovedEvent{Result: moved, OldPath: oldPath, Rewritten: rewritten})
	}
	return moved, nil
}

// Remove deletes a leaf node. Children and attached users act as reference
// counts: either blocks the deletion, nothing is cascaded.
func (s *OrgService) Remove(ctx context.Context, p datascope.Principal, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.authz.AssertCanMutateOrg(txCtx, p, id); err != nil {
			return err
		}

		children, err := s.repo.CountChildren(txCtx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return serrors.PreconditionFailed("ORG_HAS_CHILDREN", "organization still has child organizations")
		}

		dependents, err := s.dependents.CountByOrg(txCtx, id)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return serrors.PreconditionFailed("ORG_HAS_DEPENDENTS", "organization still has attached users")
		}

		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(organization.DeletedEvent{ID: id})
	return nil
}

// RebuildPaths recomputes every path and level from the parent edges in one
// transaction. Repair tool for drift after a failed partial rewrite; parent
// ids are authoritative, paths are derived.
func (s *OrgService) RebuildPaths(ctx context.Context) (int, error) {
	rewritten := 0
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		all, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]organization.Organization, len(all))
		children := make(map[uuid.UUID][]organization.Organization, len(all))
		roots := make([]organization.Organization, 0, 8)
		for _, org := range all {
			byID[org.ID()] = org
		}
		for _, org := range all {
			parentID := org.ParentID()
			if parentID == nil {
				roots = append(roots, org)
				continue
			}
			if _, ok := byID[*parentID]; !ok {
				// Orphaned edge: treat as a root rather than dropping it.
				roots = append(roots, org)
				continue
			}
			children[*parentID] = append(children[*parentID], org)
		}

		changes := make([]organization.PlacementChange, 0, len(all))
		type frame struct {
			org        organization.Organization
			parentPath string
			level      int
		}
		stack := make([]frame, 0, len(all))
		for _, root := range roots {
			stack = append(stack, frame{org: root, parentPath: orgpath.Root, level: 0})
		}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			path := orgpath.ChildPath(f.parentPath, f.org.ID())
			if path != f.org.Path() || f.level != f.org.Level() {
				changes = append(changes, organization.PlacementChange{
					ID:    f.org.ID(),
					Path:  path,
					Level: f.level,
				})
			}
			for _, child := range children[f.org.ID()] {
				stack = append(stack, frame{org: child, parentPath: path, level: f.level + 1})
			}
		}

		rewritten = len(changes)
		return s.repo.UpdatePlacements(txCtx, changes)
	})
	if err != nil {
		return 0, err
	}
	return rewritten, nil
}
