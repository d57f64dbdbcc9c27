package spatial

// Orientation distinguishes the two ways an oriented construct (key-value,
// list, tree) can be laid out across the grid.
type Orientation string

const (
	Regular    Orientation = "regular"
	Transposed Orientation = "transposed"
)

// CellCluster is a sub-group of a block's filled cells produced by the
// expand-by-1 overlap unification rule (spec §3 CellCluster).
type CellCluster struct {
	Bounds       Rect
	Filled       map[Point]string // point -> raw content
	Key          int
	Orientation  Orientation
	Construct    Construct
	forcedType   ConstructType
	hasForced    bool
}

// FilledPoints returns the cluster's filled points, unsorted.
func (c *CellCluster) FilledPoints() []Point {
	pts := make([]Point, 0, len(c.Filled))
	for p := range c.Filled {
		pts = append(pts, p)
	}
	return pts
}

// SortedFilledPoints returns the cluster's filled points in row-major order.
func (c *CellCluster) SortedFilledPoints() []Point {
	pts := c.FilledPoints()
	sortPoints(pts)
	return pts
}

// has reports whether (r, c) is a filled point of this cluster specifically
// (not merely non-empty in the underlying grid) — this is what makes key
// detection immune to neighboring clusters sharing the same block canvas.
func (c *CellCluster) has(r, col int) bool {
	_, ok := c.Filled[Point{Row: r, Col: col}]
	return ok
}
