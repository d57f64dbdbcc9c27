package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTreeNestedMatrixDomainTransposed(t *testing.T) {
	// Transposed tree: anchor at (1,1); its own column continues with an
	// empty adjacent cell but a further filled one, the matrix signature.
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Root"},
		{Row: 3, Col: 1, Value: "r0"}, {Row: 4, Col: 1, Value: "r1"},
		{Row: 2, Col: 2, Value: "c0"}, {Row: 2, Col: 3, Value: "c1"},
		{Row: 3, Col: 2, Value: "1"}, {Row: 3, Col: 3, Value: "2"},
		{Row: 4, Col: 2, Value: "3"}, {Row: 4, Col: 3, Value: "4"},
	})
	c.Orientation = Transposed
	c.Key = computeKey(c)
	tree := buildTree(c)

	require.NotNil(t, tree.Anchor.DomainRegion)
	region := tree.Anchor.DomainRegion
	require.True(t, region.HasNestedType)
	require.Equal(t, TypeMatrix, region.NestedConstructType)
}

func TestDetectDomainConstructKeyValueProbe(t *testing.T) {
	filled := map[Point]string{
		{Row: 5, Col: 5}: "k", {Row: 6, Col: 6}: "v",
	}
	c := &CellCluster{Bounds: Rect{TopRow: 1, BottomRow: 10, LeftCol: 1, RightCol: 10}, Filled: filled}
	parent := &TreeElement{Pos: Point{Row: 4, Col: 4}}
	bounds := Rect{TopRow: 5, BottomRow: 6, LeftCol: 5, RightCol: 6}
	kind, ok := detectDomainConstruct(c, parent, bounds, Regular)
	require.True(t, ok)
	require.Equal(t, TypeKeyValue, kind)
}

func TestBuildNestedConstructUnsupportedKind(t *testing.T) {
	_, err := buildNestedConstruct(nil, Rect{}, ConstructType("bogus"), Regular)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, NestedBuilderFailure, pe.Kind)
}
