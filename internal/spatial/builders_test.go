package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTable(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Name"}, {Row: 1, Col: 2, Value: "Age"},
		{Row: 2, Col: 1, Value: "A"}, {Row: 2, Col: 2, Value: "30"},
		{Row: 3, Col: 1, Value: "B"}, {Row: 3, Col: 2, Value: "40"},
	})
	c.Key = computeKey(c)
	table := buildTable(c)

	require.Len(t, table.Attributes, 2)
	require.Equal(t, "Name", table.Attributes[0].Header)
	require.Equal(t, "Age", table.Attributes[1].Header)

	require.Len(t, table.Entities, 2)
	require.Equal(t, 0, table.Entities[0].Index)
	require.Len(t, table.Entities[0].BodyCells, 2)
	require.Equal(t, "A", table.Entities[0].BodyCells[0].Content)
	require.Equal(t, "30", table.Entities[0].BodyCells[1].Content)

	require.Equal(t, "core-table-key-15", table.KeyPattern())
}

func TestBuildMatrix(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 2, Value: "Q1"}, {Row: 1, Col: 3, Value: "Q2"},
		{Row: 2, Col: 1, Value: "East"}, {Row: 2, Col: 2, Value: "1"}, {Row: 2, Col: 3, Value: "2"},
		{Row: 3, Col: 1, Value: "West"}, {Row: 3, Col: 2, Value: "3"}, {Row: 3, Col: 3, Value: "4"},
	})
	c.Key = computeKey(c)
	m := buildMatrix(c)

	require.Len(t, m.PrimaryEntities, 2)
	require.Equal(t, "Q1", m.PrimaryEntities[0].Header.Content)
	require.Len(t, m.PrimaryEntities[0].Cells, 2)

	require.Len(t, m.SecondEntities, 2)
	require.Equal(t, "East", m.SecondEntities[0].Header.Content)
	require.Equal(t, "core-matrix-key-7", m.KeyPattern())

	require.Len(t, m.Cells, 9) // 8 filled cells + the tagged empty corner
	require.Equal(t, CellEmptyCorner, m.Cells[0].CellType)
	require.Equal(t, m.EmptyCorner, m.Cells[0].Pos)
}

func TestBuildKeyValueRegular(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Record"},
		{Row: 2, Col: 2, Value: "Id"}, {Row: 2, Col: 3, Value: "7"},
		{Row: 3, Col: 2, Value: "Name"}, {Row: 3, Col: 3, Value: "Ada"},
	})
	c.Orientation = Regular
	c.Key = computeKey(c)
	kv := buildKeyValue(c)

	require.NotNil(t, kv.MainHeader)
	require.Equal(t, "Record", kv.MainHeader.Content)
	require.Len(t, kv.Pairs, 2)
	require.Equal(t, "Id", kv.Pairs[0].Key.Content)
	require.Equal(t, "7", kv.Pairs[0].Values[0].Content)
}

func TestBuildListVertical(t *testing.T) {
	c := clusterOf(t, []Cell{
		{Row: 1, Col: 1, Value: "Colors"},
		{Row: 2, Col: 1, Value: "Red"},
		{Row: 3, Col: 1, Value: "Green"},
	})
	c.Orientation = Regular
	c.Key = computeKey(c)
	l := buildList(c)

	require.Equal(t, "Colors", l.Header.Content)
	require.Len(t, l.Items, 2)
	require.Equal(t, 0, l.Items[0].Index)
	require.Equal(t, "Red", l.Items[0].Cell.Content)
	require.Equal(t, Point{Row: 4, Col: 1}, l.nextItemPosition())
}
