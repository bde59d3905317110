package mappers

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	"github.com/atlas-hq/atlas-admin/modules/org/presentation/viewmodels"
)

// BuildTree nests a flat organization list by parent id. Nodes whose parent
// is absent from the list (cut off by the caller's data scope) are promoted
// to roots so a scoped principal still sees a coherent tree. Siblings are
// ordered by sort order, with locale-aware name comparison breaking ties.
func BuildTree(orgs []organization.Organization) []*viewmodels.OrgNode {
	nodes := make(map[string]*viewmodels.OrgNode, len(orgs))
	for _, org := range orgs {
		nodes[org.ID().String()] = &viewmodels.OrgNode{
			ID:        org.ID(),
			Name:      org.Name(),
			Code:      org.Code(),
			ParentID:  org.ParentID(),
			Path:      org.Path(),
			Level:     org.Level(),
			SortOrder: org.SortOrder(),
			Children:  []*viewmodels.OrgNode{},
		}
	}

	roots := make([]*viewmodels.OrgNode, 0, 8)
	for _, org := range orgs {
		node := nodes[org.ID().String()]
		if pid := org.ParentID(); pid != nil {
			if parent, ok := nodes[pid.String()]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	collator := collate.New(language.Und)
	sortSiblings(roots, collator)
	return roots
}

func sortSiblings(nodes []*viewmodels.OrgNode, collator *collate.Collator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return collator.CompareString(nodes[i].Name, nodes[j].Name) < 0
	})
	for _, node := range nodes {
		sortSiblings(node.Children, collator)
	}
}
