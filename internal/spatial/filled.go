package spatial

import "strings"

// BuildFilledSet enumerates (row, col, value) from store for every cell
// whose trimmed value is non-empty. Rows/cols are scanned 1..N so
// coordinates are always positive; this path never raises
// InvalidCoordinate.
func BuildFilledSet(store GridStore) []Cell {
	rows := store.NumberOfRows()
	cols := store.NumberOfColumns()
	if rows <= 0 || cols <= 0 {
		return nil
	}
	cells := make([]Cell, 0, rows) // rough hint; grids are typically sparse
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			v := store.GetCell(r, c)
			if strings.TrimSpace(v) == "" {
				continue
			}
			cells = append(cells, Cell{Row: r, Col: c, Value: v})
		}
	}
	return cells
}

// ValidateCells checks caller-supplied cells for positive coordinates and
// builds the filled-point index used by the rest of the pipeline. Used by
// the explicit-cell entry point (ParseCells), where coordinates are not
// guaranteed by a bounded scan.
func ValidateCells(cells []Cell) (map[Point]Cell, error) {
	index := make(map[Point]Cell, len(cells))
	for _, c := range cells {
		if c.Row <= 0 || c.Col <= 0 {
			return nil, newError(InvalidCoordinate, "non-positive coordinate (%d,%d)", c.Row, c.Col)
		}
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		index[Point{Row: c.Row, Col: c.Col}] = c
	}
	return index, nil
}
