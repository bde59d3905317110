// Package orgpath encodes organization ancestry as materialized path
// strings of the form "/id1/id2/.../", enabling subtree queries via string
// prefix matching instead of recursive joins.
package orgpath

import (
	"strings"

	"github.com/google/uuid"
)

// Root is the parent path of every root node.
const Root = "/"

// ChildPath returns the path of a node with the given id under parentPath.
func ChildPath(parentPath string, id uuid.UUID) string {
	return parentPath + id.String() + "/"
}

// RootPath returns the path of a root node.
func RootPath(id uuid.UUID) string {
	return Root + id.String() + "/"
}

// IsDescendantOrSelf reports whether candidatePath lies inside the subtree
// rooted at ancestorPath, the node itself included.
func IsDescendantOrSelf(candidatePath, ancestorPath string) bool {
	return strings.HasPrefix(candidatePath, ancestorPath)
}

// ParentPath strips the last id segment, returning Root for a root's parent.
func ParentPath(path string) string {
	segments := Segments(path)
	if len(segments) <= 1 {
		return Root
	}
	return Root + strings.Join(segments[:len(segments)-1], "/") + "/"
}

// Depth counts id segments minus one, so roots sit at depth zero.
func Depth(path string) int {
	return len(Segments(path)) - 1
}

// Segments splits a path into its id segments, dropping the empty fragments
// produced by the leading and trailing separators.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
