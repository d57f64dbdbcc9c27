package spatial

// Construct is a sealed, tagged union of the five construct variants.
// Callers switch on Type(); the concrete accessors live on each variant
// struct (Table, Matrix, KeyValue, List, Tree). No virtual dispatch is
// used — the formatter downstream type-switches on Type().
type Construct interface {
	Type() ConstructType
	Bounds() Rect
	KeyPattern() string

	isConstruct()
}

// CellType tags a single cell's structural role within its construct.
type CellType string

const (
	CellHeader          CellType = "header"
	CellBody            CellType = "body"
	CellPrimaryHeader   CellType = "primary_header"
	CellSecondaryHeader CellType = "secondary_header"
	CellEmptyCorner     CellType = "empty_corner"
)

type positionedCell struct {
	Pos      Point
	Content  string
	CellType CellType
}
