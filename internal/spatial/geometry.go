package spatial

// rectGap returns the rectilinear gap between two rects along each axis:
// 0 when their ranges overlap on that axis, otherwise the count of empty
// rows/cols strictly between them. A negative axis gap never occurs; an
// axis "gap" of 0 includes overlap.
func rectGap(a, b Rect) (rowGap, colGap int) {
	rowGap = axisGap(a.TopRow, a.BottomRow, b.TopRow, b.BottomRow)
	colGap = axisGap(a.LeftCol, a.RightCol, b.LeftCol, b.RightCol)
	return
}

func axisGap(aLo, aHi, bLo, bHi int) int {
	if aHi < bLo {
		return bLo - aHi - 1
	}
	if bHi < aLo {
		return aLo - bHi - 1
	}
	return 0
}

// withinProximity reports whether two rects are close enough to merge
// under the given proximity bound: the rectilinear gap on both axes must
// be at most proximity (spec §4.1 Step B / cluster sub-step 5; spec.md §8
// boundary behaviors treats a gap equal to the bound as still merging).
func withinProximity(a, b Rect, proximity int) bool {
	rowGap, colGap := rectGap(a, b)
	return rowGap <= proximity && colGap <= proximity
}

// boundingBox computes the minimal rect enclosing pts. Panics on an empty
// slice; callers must not invoke it on empty point sets.
func boundingBox(pts []Point) Rect {
	r := Rect{TopRow: pts[0].Row, BottomRow: pts[0].Row, LeftCol: pts[0].Col, RightCol: pts[0].Col}
	for _, p := range pts[1:] {
		if p.Row < r.TopRow {
			r.TopRow = p.Row
		}
		if p.Row > r.BottomRow {
			r.BottomRow = p.Row
		}
		if p.Col < r.LeftCol {
			r.LeftCol = p.Col
		}
		if p.Col > r.RightCol {
			r.RightCol = p.Col
		}
	}
	return r
}

// neighbors8 returns the 8-neighborhood of p.
func neighbors8(p Point) [8]Point {
	return [8]Point{
		{p.Row - 1, p.Col - 1}, {p.Row - 1, p.Col}, {p.Row - 1, p.Col + 1},
		{p.Row, p.Col - 1}, {p.Row, p.Col + 1},
		{p.Row + 1, p.Col - 1}, {p.Row + 1, p.Col}, {p.Row + 1, p.Col + 1},
	}
}

// connectedComponents groups the points in present via 8-neighbor BFS.
func connectedComponents(present map[Point]struct{}) [][]Point {
	visited := make(map[Point]bool, len(present))
	var comps [][]Point
	for start := range present {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []Point{start}
		comp := []Point{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range neighbors8(cur) {
				if _, ok := present[n]; !ok || visited[n] {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
				comp = append(comp, n)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
