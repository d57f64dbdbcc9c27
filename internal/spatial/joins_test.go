package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectJoinsNoneWhenFramesDisjoint(t *testing.T) {
	gridBounds := Rect{TopRow: 1, BottomRow: 30, LeftCol: 1, RightCol: 30}

	a := &Block{ID: 1, Bounds: Rect{TopRow: 1, BottomRow: 2, LeftCol: 1, RightCol: 2},
		CanvasFilled: map[Point]Cell{{Row: 1, Col: 1}: {Row: 1, Col: 1, Value: "A"}}}
	b := &Block{ID: 2, Bounds: Rect{TopRow: 1, BottomRow: 2, LeftCol: 10, RightCol: 11},
		CanvasFilled: map[Point]Cell{{Row: 1, Col: 10}: {Row: 1, Col: 10, Value: "B"}}}

	finalizeBlock(a, gridBounds, []Rect{b.Bounds})
	finalizeBlock(b, gridBounds, []Rect{a.Bounds})

	joins := detectJoins([]*Block{a, b})
	require.Empty(t, joins, "blocks far apart share no frame/border cells")
}

func TestDetectJoinsAndGrouping(t *testing.T) {
	gridBounds := Rect{TopRow: 1, BottomRow: 30, LeftCol: 1, RightCol: 30}

	a := &Block{ID: 1, Bounds: Rect{TopRow: 1, BottomRow: 2, LeftCol: 1, RightCol: 2},
		CanvasFilled: map[Point]Cell{{Row: 1, Col: 1}: {Row: 1, Col: 1, Value: "A"}}}
	b := &Block{ID: 2, Bounds: Rect{TopRow: 1, BottomRow: 2, LeftCol: 5, RightCol: 6},
		CanvasFilled: map[Point]Cell{{Row: 1, Col: 5}: {Row: 1, Col: 5, Value: "B"}}}

	finalizeBlock(a, gridBounds, []Rect{b.Bounds})
	finalizeBlock(b, gridBounds, []Rect{a.Bounds})

	joins := detectJoins([]*Block{a, b})
	require.Len(t, joins, 1)

	clusters := groupBlockClusters([]*Block{a, b}, joins)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Blocks, 2)
}

func TestGroupBlockClustersSeparatesUnjoined(t *testing.T) {
	gridBounds := Rect{TopRow: 1, BottomRow: 100, LeftCol: 1, RightCol: 100}

	a := &Block{ID: 1, Bounds: Rect{TopRow: 1, BottomRow: 1, LeftCol: 1, RightCol: 1},
		CanvasFilled: map[Point]Cell{{Row: 1, Col: 1}: {Row: 1, Col: 1, Value: "A"}}}
	b := &Block{ID: 2, Bounds: Rect{TopRow: 50, BottomRow: 50, LeftCol: 50, RightCol: 50},
		CanvasFilled: map[Point]Cell{{Row: 50, Col: 50}: {Row: 50, Col: 50, Value: "B"}}}

	finalizeBlock(a, gridBounds, []Rect{b.Bounds})
	finalizeBlock(b, gridBounds, []Rect{a.Bounds})

	joins := detectJoins([]*Block{a, b})
	require.Empty(t, joins)

	clusters := groupBlockClusters([]*Block{a, b}, joins)
	require.Len(t, clusters, 2)
}
