package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cellsToFilled(t *testing.T, cells []Cell) map[Point]Cell {
	t.Helper()
	filled, err := ValidateCells(cells)
	require.NoError(t, err)
	return filled
}

func TestDiscoverBlocksSeparatesDistantGroups(t *testing.T) {
	filled := cellsToFilled(t, []Cell{
		{Row: 1, Col: 1, Value: "A"},
		{Row: 1, Col: 2, Value: "B"},
		{Row: 20, Col: 20, Value: "Z"},
	})
	blocks := discoverBlocks(filled)
	require.Len(t, blocks, 2)
}

func TestDiscoverBlocksMergesWithinProximity(t *testing.T) {
	filled := cellsToFilled(t, []Cell{
		{Row: 1, Col: 1, Value: "A"},
		{Row: 1, Col: 4, Value: "B"}, // gap of 2 cols, within BlockMergeProximity
	})
	blocks := discoverBlocks(filled)
	require.Len(t, blocks, 1)
	require.Equal(t, Rect{TopRow: 1, BottomRow: 1, LeftCol: 1, RightCol: 4}, blocks[0].Bounds)
}

func TestDiscoverBlocksDoesNotMergeBeyondProximity(t *testing.T) {
	filled := cellsToFilled(t, []Cell{
		{Row: 1, Col: 1, Value: "A"},
		{Row: 1, Col: 5, Value: "B"}, // gap of 3, beyond BlockMergeProximity
	})
	blocks := discoverBlocks(filled)
	require.Len(t, blocks, 2)
}

func TestFinalizeBlockSimpleTable(t *testing.T) {
	filled := cellsToFilled(t, []Cell{
		{Row: 1, Col: 1, Value: "Name"}, {Row: 1, Col: 2, Value: "Age"},
		{Row: 2, Col: 1, Value: "A"}, {Row: 2, Col: 2, Value: "30"},
	})
	blocks := discoverBlocks(filled)
	require.Len(t, blocks, 1)

	gridBounds := Rect{TopRow: 1, BottomRow: 10, LeftCol: 1, RightCol: 10}
	finalizeBlock(blocks[0], gridBounds, nil)

	require.Len(t, blocks[0].CellClusters, 1)
	require.Empty(t, blocks[0].CanvasEmpty)
	require.NotEmpty(t, blocks[0].Border)
	require.NotEmpty(t, blocks[0].Frame)
}
