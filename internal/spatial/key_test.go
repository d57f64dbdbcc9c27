package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clusterOf(t *testing.T, cells []Cell) *CellCluster {
	t.Helper()
	filled := cellsToFilled(t, cells)
	var pts []Point
	content := make(map[Point]string, len(filled))
	for p, c := range filled {
		pts = append(pts, p)
		content[p] = c.Value
	}
	return &CellCluster{Bounds: boundingBox(pts), Filled: content}
}

func TestDetectTypeTable(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Name"}, {Row: 1, Col: 2, Value: "Age"},
		{Row: 2, Col: 1, Value: "A"}, {Row: 2, Col: 2, Value: "30"},
	})
	require.Equal(t, TypeTable, detectType(c))
	require.Equal(t, 15, c.Key)
}

func TestDetectTypeMatrix(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 2, Value: "Q1"}, {Row: 1, Col: 3, Value: "Q2"},
		{Row: 2, Col: 1, Value: "East"}, {Row: 2, Col: 2, Value: "1"}, {Row: 2, Col: 3, Value: "2"},
	})
	require.Equal(t, TypeMatrix, detectType(c))
	require.Equal(t, 7, c.Key)
}

func TestDetectTypeKeyValue(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Record"},
		{Row: 2, Col: 2, Value: "Id"}, {Row: 2, Col: 3, Value: "7"},
		{Row: 3, Col: 2, Value: "Name"}, {Row: 3, Col: 3, Value: "Ada"},
	})
	require.Equal(t, TypeKeyValue, detectType(c))
	require.Equal(t, 9, c.Key)
	require.Equal(t, Regular, c.Orientation)
}

func TestDetectTypeListVertical(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Colors"},
		{Row: 2, Col: 1, Value: "Red"},
		{Row: 3, Col: 1, Value: "Green"},
	})
	require.Equal(t, TypeList, detectType(c))
	require.Equal(t, Regular, c.Orientation)
}

func TestDetectTypeListHorizontal(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Colors"},
		{Row: 1, Col: 2, Value: "Red"},
		{Row: 1, Col: 3, Value: "Green"},
	})
	require.Equal(t, TypeList, detectType(c))
	require.Equal(t, Transposed, c.Orientation)
}

func TestDetectTypeTreeFallback(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Root"},
		{Row: 1, Col: 2, Value: "Child"},
		{Row: 2, Col: 3, Value: "Grandchild"},
	})
	require.Equal(t, TypeTree, detectType(c))
}

func TestForceDetectionBypassesKeyTable(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Root"},
		{Row: 2, Col: 2, Value: "Child"},
	})
	c.ForceDetection(TypeTable)
	require.Equal(t, TypeTable, detectType(c))
}

func TestComputeKeyIsolatedToOwnCluster(t *testing.T) {
	// Two clusters sharing a block canvas: c's own window must not see
	// the neighbor's cell at (1,2). Its key is 1010 (10); a leaked (1,2)
	// would make it 1110 (14).
	c := &CellCluster{
		Bounds: Rect{TopRow: 1, BottomRow: 2, LeftCol: 1, RightCol: 1},
		Filled: map[Point]string{{Row: 1, Col: 1}: "A", {Row: 2, Col: 1}: "B"},
	}
	require.Equal(t, TypeList, detectType(c))
	require.Equal(t, 10, c.Key)
}
