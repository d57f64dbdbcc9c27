package spatial

import "strconv"

// ConstructType tags which construct variant a cell cluster was detected as.
type ConstructType string

const (
	TypeTable    ConstructType = "table"
	TypeMatrix   ConstructType = "matrix"
	TypeKeyValue ConstructType = "keyvalue"
	TypeList     ConstructType = "list"
	TypeTree     ConstructType = "tree"
)

// computeKey derives the 4-bit key from the cluster's own top-left 2x2
// window. Membership is tested against the cluster's own filled set, not
// the raw grid — a neighboring cluster sharing the same block canvas must
// never leak into this window (spec §4.3, §9 "pick one convention").
func computeKey(c *CellCluster) int {
	top, left := c.Bounds.TopRow, c.Bounds.LeftCol
	bit := func(has bool) int {
		if has {
			return 1
		}
		return 0
	}
	b3 := bit(c.has(top, left))
	b2 := bit(c.has(top, left+1))
	b1 := bit(c.has(top+1, left))
	b0 := bit(c.has(top+1, left+1))
	return b3<<3 | b2<<2 | b1<<1 | b0
}

// ForceDetection overrides the variant a cluster resolves to, bypassing
// the key table. Used when reparsing a tree's domain region as a synthetic
// cluster (Design Notes: "dynamic cluster detection override"); the key
// detector stays pure, the override is carried on the request, not global
// state.
func (c *CellCluster) ForceDetection(t ConstructType) {
	c.forcedType = t
	c.hasForced = true
}

// detectType assigns the cluster's key, orientation and construct type.
// Detection is total: every cluster (besides the empty case, handled by
// the caller) resolves to exactly one variant. Shape constraints (single
// row/column for list) are checked as hard preconditions before the key
// lookup, per spec §9's resolution of the table's stated ambiguity.
func detectType(c *CellCluster) ConstructType {
	c.Key = computeKey(c)

	if c.hasForced {
		return c.forcedType
	}

	count := len(c.Filled)
	singleRow := c.Bounds.TopRow == c.Bounds.BottomRow
	singleCol := c.Bounds.LeftCol == c.Bounds.RightCol

	switch {
	case singleRow && !singleCol && count >= 2:
		c.Orientation = Transposed
		return TypeList
	case singleCol && !singleRow && count >= 2:
		c.Orientation = Regular
		return TypeList
	case c.Key == 15:
		return TypeTable
	case c.Key == 7:
		return TypeMatrix
	case c.Key == 9:
		c.Orientation = inferOrientation(c.Bounds)
		return TypeKeyValue
	case singleRow && singleCol:
		// Degenerate: a single filled cell becomes a header-only list.
		c.Orientation = Regular
		return TypeList
	default:
		c.Orientation = inferOrientation(c.Bounds)
		return TypeTree
	}
}

// inferOrientation resolves regular vs transposed for constructs whose
// orientation is not already fixed by an explicit 1-D shape (key-value,
// tree). The source spec does not state an exact selection algorithm for
// these two variants; a taller-or-square cluster reads as a top-down
// (regular) layout, a wider one as left-to-right (transposed) — see
// DESIGN.md.
func inferOrientation(b Rect) Orientation {
	if b.Height() >= b.Width() {
		return Regular
	}
	return Transposed
}

// KeyPattern is the wire-format diagnostic string for a detected
// construct: "core-<type>-key-<n>" (spec §6).
func KeyPattern(t ConstructType, key int) string {
	names := map[ConstructType]string{
		TypeTable: "table", TypeMatrix: "matrix", TypeKeyValue: "kv",
		TypeList: "list", TypeTree: "tree",
	}
	name, ok := names[t]
	if !ok {
		name = string(t)
	}
	return "core-" + name + "-key-" + strconv.Itoa(key)
}
