package spatial

// ListItem is one entry of a List, zero-indexed in the cluster's natural
// order (row-major for a horizontal list, column-major for a vertical one).
type ListItem struct {
	Index int
	Cell  positionedCell
}

// List is the 1-D construct: a single row (Transposed) or single column
// (Regular) of filled cells. The first cell is the header; the rest are
// items (none for a single-cell cluster).
type List struct {
	bounds      Rect
	key         int
	Orientation Orientation
	Header      positionedCell
	Items       []ListItem
}

func (l *List) Type() ConstructType { return TypeList }
func (l *List) Bounds() Rect        { return l.bounds }
func (l *List) KeyPattern() string  { return KeyPattern(TypeList, l.key) }
func (*List) isConstruct()          {}

// nextItemPosition returns the position one step past the list's last
// item, extending the list contiguously along its orientation.
func (l *List) nextItemPosition() Point {
	last := l.Header.Pos
	if n := len(l.Items); n > 0 {
		last = l.Items[n-1].Cell.Pos
	}
	if l.Orientation == Regular {
		return Point{Row: last.Row + 1, Col: last.Col}
	}
	return Point{Row: last.Row, Col: last.Col + 1}
}

func buildList(c *CellCluster) *List {
	l := &List{bounds: c.Bounds, key: c.Key, Orientation: c.Orientation}
	pts := c.SortedFilledPoints()
	if len(pts) == 0 {
		return l
	}
	l.Header = positionedCell{Pos: pts[0], Content: c.Filled[pts[0]], CellType: CellHeader}
	for i, p := range pts[1:] {
		l.Items = append(l.Items, ListItem{Index: i, Cell: positionedCell{Pos: p, Content: c.Filled[p], CellType: CellBody}})
	}
	return l
}
