package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/surface"
)

func mustSurface(t *testing.T, n *doc.Node) surface.Surface {
	t.Helper()
	s, ok := surface.Classify(n, nil)
	require.True(t, ok)
	return s
}
