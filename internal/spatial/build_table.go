package spatial

// TableAttribute is one column of a Table, including its header cell
// (spec §4.4: "attributes are columns (including their header cell)").
type TableAttribute struct {
	Index  int
	Col    int
	Header string
	Cells  []positionedCell
}

// TableEntity is one data row of a Table, excluding the header row.
type TableEntity struct {
	Index     int
	Row       int
	BodyCells []positionedCell
}

// Table is the full-grid construct: every cell within bounds is present
// (the definition of key 15).
type Table struct {
	bounds     Rect
	key        int
	Cells      []positionedCell
	Entities   []TableEntity
	Attributes []TableAttribute
}

func (t *Table) Type() ConstructType { return TypeTable }
func (t *Table) Bounds() Rect        { return t.bounds }
func (t *Table) KeyPattern() string  { return KeyPattern(TypeTable, t.key) }
func (*Table) isConstruct()          {}

// buildTable assumes every cell in c.Bounds is filled (the key-15
// precondition); it assigns header/body cell types and derives entities
// (rows, 0-indexed, excluding the header row) and attributes (columns,
// including their header cell).
func buildTable(c *CellCluster) *Table {
	t := &Table{bounds: c.Bounds, key: c.Key}

	for r := c.Bounds.TopRow; r <= c.Bounds.BottomRow; r++ {
		for col := c.Bounds.LeftCol; col <= c.Bounds.RightCol; col++ {
			p := Point{Row: r, Col: col}
			content, ok := c.Filled[p]
			if !ok {
				continue
			}
			ct := CellBody
			if r == c.Bounds.TopRow || col == c.Bounds.LeftCol {
				ct = CellHeader
			}
			t.Cells = append(t.Cells, positionedCell{Pos: p, Content: content, CellType: ct})
		}
	}

	for col := c.Bounds.LeftCol; col <= c.Bounds.RightCol; col++ {
		attr := TableAttribute{
			Index:  col - c.Bounds.LeftCol,
			Col:    col,
			Header: c.Filled[Point{Row: c.Bounds.TopRow, Col: col}],
		}
		for r := c.Bounds.TopRow; r <= c.Bounds.BottomRow; r++ {
			p := Point{Row: r, Col: col}
			ct := CellBody
			if r == c.Bounds.TopRow || col == c.Bounds.LeftCol {
				ct = CellHeader
			}
			attr.Cells = append(attr.Cells, positionedCell{Pos: p, Content: c.Filled[p], CellType: ct})
		}
		t.Attributes = append(t.Attributes, attr)
	}

	for r := c.Bounds.TopRow + 1; r <= c.Bounds.BottomRow; r++ {
		ent := TableEntity{Index: r - c.Bounds.TopRow - 1, Row: r}
		for col := c.Bounds.LeftCol; col <= c.Bounds.RightCol; col++ {
			p := Point{Row: r, Col: col}
			ct := CellBody
			if col == c.Bounds.LeftCol {
				ct = CellHeader
			}
			ent.BodyCells = append(ent.BodyCells, positionedCell{Pos: p, Content: c.Filled[p], CellType: ct})
		}
		t.Entities = append(t.Entities, ent)
	}

	return t
}
