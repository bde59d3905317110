package serrors_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusNotFound, serrors.StatusOf(serrors.NotFound("ORG_NOT_FOUND", "organization not found")))
	require.Equal(t, http.StatusInternalServerError, serrors.StatusOf(errors.New("boom")))
}

func TestStatusOfWrapped(t *testing.T) {
	err := errors.Wrap(serrors.Forbidden("ORG_FORBIDDEN", "no access"), "listing organizations")
	require.Equal(t, http.StatusForbidden, serrors.StatusOf(err))
	require.Equal(t, "ORG_FORBIDDEN", serrors.CodeOf(err))
	require.True(t, serrors.IsForbidden(err))
}

func TestPredicates(t *testing.T) {
	require.True(t, serrors.IsNotFound(serrors.NotFound("X", "x")))
	require.True(t, serrors.IsConflict(serrors.Conflict("X", "x")))
	require.True(t, serrors.IsPreconditionFailed(serrors.PreconditionFailed("X", "x")))
	require.False(t, serrors.IsNotFound(serrors.Conflict("X", "x")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("row not found")
	err := serrors.New(http.StatusNotFound, "ORG_NOT_FOUND", "organization not found", cause)
	require.Contains(t, err.Error(), "row not found")
	require.ErrorIs(t, err, cause)
}
