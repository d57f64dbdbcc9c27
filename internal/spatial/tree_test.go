package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTreeHierarchyAndNestedTable(t *testing.T) {
	// Scenario 5: a regular tree whose parent at (3,1) has descendants
	// forming a full 2x2+headers table over R3C2..R5C4.
	c := clusterOf(t, []Cell{
		{Row: 3, Col: 1, Value: "Root"},
		{Row: 3, Col: 2, Value: "h00"}, {Row: 3, Col: 3, Value: "h01"}, {Row: 3, Col: 4, Value: "h02"},
		{Row: 4, Col: 2, Value: "h10"}, {Row: 4, Col: 3, Value: "1"}, {Row: 4, Col: 4, Value: "2"},
		{Row: 5, Col: 2, Value: "h20"}, {Row: 5, Col: 3, Value: "3"}, {Row: 5, Col: 4, Value: "4"},
	})
	c.Orientation = Regular
	c.Key = computeKey(c)
	tree := buildTree(c)

	require.NotNil(t, tree.Anchor)
	require.Equal(t, "Root", tree.Anchor.Content)
	require.True(t, tree.Anchor.IsAnchor)
	require.True(t, tree.Anchor.IsParent)
	require.Len(t, tree.Anchor.Children, 3)

	require.NotNil(t, tree.Anchor.DomainRegion)
	region := tree.Anchor.DomainRegion
	require.Equal(t, Rect{TopRow: 3, BottomRow: 5, LeftCol: 2, RightCol: 4}, region.Bounds)
	require.True(t, region.HasNestedType)
	require.Equal(t, TypeTable, region.NestedConstructType)
	require.True(t, region.ParsedSuccessfully)
	require.NotNil(t, region.NestedConstruct)
	require.Equal(t, TypeTable, region.NestedConstruct.Type())

	require.GreaterOrEqual(t, len(tree.ChildConstructs), 1)

	// Invariant 5: a parent's domain never contains its own cell.
	require.False(t, region.Bounds.Contains(tree.Anchor.Pos))
}

func TestBuildTreeChildrenOnlyDomainWhenNoSecondDimension(t *testing.T) {
	// Root's only descendant line is a plain indented list: no 2-D shape
	// forms in the parent's row, so the domain stays "children" (no
	// construct attempted).
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Root"},
		{Row: 2, Col: 2, Value: "Child A"},
		{Row: 3, Col: 2, Value: "Child B"},
	})
	c.Orientation = Regular
	c.Key = computeKey(c)
	tree := buildTree(c)

	require.True(t, tree.Anchor.IsParent)
	require.NotNil(t, tree.Anchor.DomainRegion)
	require.False(t, tree.Anchor.DomainRegion.HasNestedType)
	require.True(t, tree.Anchor.DomainRegion.ParsedSuccessfully)
	require.Empty(t, tree.ChildConstructs)
}

func TestBuildTreeContentIndentOverridesSpatialLevel(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Root"},
		{Row: 2, Col: 1, Value: "  Deep"}, // 2 leading spaces -> indent level 1, same column as root
	})
	c.Orientation = Regular
	c.Key = computeKey(c)
	tree := buildTree(c)

	require.True(t, tree.Anchor.IsParent)
	require.Len(t, tree.Anchor.Children, 1)
	child := elementByID(tree.Elements, tree.Anchor.Children[0])
	require.Equal(t, 1, child.Level)
	require.True(t, child.IsChild)
}
