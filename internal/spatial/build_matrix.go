package spatial

// MatrixEntity is one header-plus-body slice of a Matrix: a column
// (primary entity) or a row (secondary entity).
type MatrixEntity struct {
	Index  int
	Header positionedCell
	Cells  []positionedCell
}

// Matrix is the key-7 construct: the top-left corner is empty (the
// emptyCorner), the rest of the top row is primary-header, the rest of
// the left column is secondary-header, and every other filled cell is
// body. Cells is the flat, tagged view of the empty corner, every filled
// header, and the filled body cells of columns with a primary header
// (spec §3's `cells: […, cellType: …]`); PrimaryEntities/SecondEntities
// are the same data regrouped by column/row for convenience.
type Matrix struct {
	bounds          Rect
	key             int
	EmptyCorner     Point
	Cells           []positionedCell
	PrimaryEntities []MatrixEntity // columns
	SecondEntities  []MatrixEntity // rows
}

func (m *Matrix) Type() ConstructType { return TypeMatrix }
func (m *Matrix) Bounds() Rect        { return m.bounds }
func (m *Matrix) KeyPattern() string  { return KeyPattern(TypeMatrix, m.key) }
func (*Matrix) isConstruct()          {}

func buildMatrix(c *CellCluster) *Matrix {
	corner := Point{Row: c.Bounds.TopRow, Col: c.Bounds.LeftCol}
	m := &Matrix{bounds: c.Bounds, key: c.Key, EmptyCorner: corner}
	m.Cells = append(m.Cells, positionedCell{Pos: corner, CellType: CellEmptyCorner})

	for col := c.Bounds.LeftCol + 1; col <= c.Bounds.RightCol; col++ {
		headerPos := Point{Row: c.Bounds.TopRow, Col: col}
		header, ok := c.Filled[headerPos]
		if !ok {
			continue
		}
		headerCell := positionedCell{Pos: headerPos, Content: header, CellType: CellPrimaryHeader}
		ent := MatrixEntity{Index: col - c.Bounds.LeftCol - 1, Header: headerCell}
		m.Cells = append(m.Cells, headerCell)
		for r := c.Bounds.TopRow + 1; r <= c.Bounds.BottomRow; r++ {
			p := Point{Row: r, Col: col}
			if content, ok := c.Filled[p]; ok {
				body := positionedCell{Pos: p, Content: content, CellType: CellBody}
				ent.Cells = append(ent.Cells, body)
				m.Cells = append(m.Cells, body)
			}
		}
		m.PrimaryEntities = append(m.PrimaryEntities, ent)
	}

	for r := c.Bounds.TopRow + 1; r <= c.Bounds.BottomRow; r++ {
		headerPos := Point{Row: r, Col: c.Bounds.LeftCol}
		header, ok := c.Filled[headerPos]
		if !ok {
			continue
		}
		headerCell := positionedCell{Pos: headerPos, Content: header, CellType: CellSecondaryHeader}
		ent := MatrixEntity{Index: r - c.Bounds.TopRow - 1, Header: headerCell}
		m.Cells = append(m.Cells, headerCell)
		for col := c.Bounds.LeftCol + 1; col <= c.Bounds.RightCol; col++ {
			p := Point{Row: r, Col: col}
			if content, ok := c.Filled[p]; ok {
				ent.Cells = append(ent.Cells, positionedCell{Pos: p, Content: content, CellType: CellBody})
			}
		}
		m.SecondEntities = append(m.SecondEntities, ent)
	}

	return m
}
