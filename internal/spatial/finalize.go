package spatial

// expandRect grows r by n cells in every direction, clipped to bounds.
func expandRect(r Rect, n int, clip Rect) Rect {
	out := Rect{
		TopRow:    r.TopRow - n,
		BottomRow: r.BottomRow + n,
		LeftCol:   r.LeftCol - n,
		RightCol:  r.RightCol + n,
	}
	if out.TopRow < clip.TopRow {
		out.TopRow = clip.TopRow
	}
	if out.BottomRow > clip.BottomRow {
		out.BottomRow = clip.BottomRow
	}
	if out.LeftCol < clip.LeftCol {
		out.LeftCol = clip.LeftCol
	}
	if out.RightCol > clip.RightCol {
		out.RightCol = clip.RightCol
	}
	return out
}

// ringPoints enumerates every point inside outer but not inside inner,
// excluding points owned by any block other than self (border/frame
// invariant: rings exclude cells owned by other blocks).
func ringPoints(outer, inner Rect, otherBlocks []Rect) []Point {
	var pts []Point
	for r := outer.TopRow; r <= outer.BottomRow; r++ {
		for c := outer.LeftCol; c <= outer.RightCol; c++ {
			p := Point{Row: r, Col: c}
			if inner.Contains(p) {
				continue
			}
			if ownedByOther(p, otherBlocks) {
				continue
			}
			pts = append(pts, p)
		}
	}
	return pts
}

func ownedByOther(p Point, otherBlocks []Rect) bool {
	for _, b := range otherBlocks {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// finalizeBlock computes canvas-empty, border, frame, and cell clusters
// for a single block (spec §4.1 Step C). gridBounds clips the rings to
// the grid's extent; otherBounds lists every other block's bbox so rings
// can exclude cells those blocks own.
func finalizeBlock(b *Block, gridBounds Rect, otherBounds []Rect) {
	// C.1: canvas-empty.
	for r := b.Bounds.TopRow; r <= b.Bounds.BottomRow; r++ {
		for c := b.Bounds.LeftCol; c <= b.Bounds.RightCol; c++ {
			p := Point{Row: r, Col: c}
			if _, filled := b.CanvasFilled[p]; !filled {
				b.CanvasEmpty = append(b.CanvasEmpty, p)
			}
		}
	}

	// C.2/C.3: border and frame rings.
	border := expandRect(b.Bounds, 1, gridBounds)
	frame := expandRect(b.Bounds, 2, gridBounds)
	b.Border = ringPoints(border, b.Bounds, otherBounds)
	b.Frame = ringPoints(frame, border, otherBounds)

	// C.4/C.5: cluster detection + sub-cluster unification.
	b.CellClusters, b.ClusterEmpty = detectCellClusters(b)
}

// detectCellClusters groups a block's canvas-filled points into cell
// clusters via 8-neighbor BFS, then unifies filled lumps with adjacent
// empty lumps under the expand-by-1-then-overlap rule, re-stabilizing
// until no further merge applies (spec §4.1 Step C.4-5).
func detectCellClusters(b *Block) ([]*CellCluster, []Point) {
	if len(b.CanvasFilled) == 0 {
		return nil, nil
	}

	filledPresent := make(map[Point]struct{}, len(b.CanvasFilled))
	for p := range b.CanvasFilled {
		filledPresent[p] = struct{}{}
	}
	emptyPresent := make(map[Point]struct{}, len(b.CanvasEmpty))
	for _, p := range b.CanvasEmpty {
		emptyPresent[p] = struct{}{}
	}

	type lump struct {
		points []Point
		bounds Rect
	}

	filledLumps := make([]lump, 0, 4)
	for _, comp := range connectedComponents(filledPresent) {
		filledLumps = append(filledLumps, lump{points: comp, bounds: boundingBox(comp)})
	}
	emptyLumps := make([]lump, 0, 4)
	for _, comp := range connectedComponents(emptyPresent) {
		emptyLumps = append(emptyLumps, lump{points: comp, bounds: boundingBox(comp)})
	}

	clusterEmptySet := make(map[Point]struct{})

	for {
		mergedSomething := false

		// Unify each filled lump with any empty lump within
		// ClusterMergeProximity of its bbox (touching or overlapping, at
		// gap <= proximity).
		for fi := range filledLumps {
			for ei := 0; ei < len(emptyLumps); ei++ {
				if !withinProximity(filledLumps[fi].bounds, emptyLumps[ei].bounds, ClusterMergeProximity) {
					continue
				}
				for _, p := range emptyLumps[ei].points {
					clusterEmptySet[p] = struct{}{}
				}
				filledLumps[fi].bounds = filledLumps[fi].bounds.Union(emptyLumps[ei].bounds)
				emptyLumps = append(emptyLumps[:ei], emptyLumps[ei+1:]...)
				mergedSomething = true
				ei--
			}
		}

		// Re-merge filled lumps whose (possibly just-grown) bboxes now
		// touch or overlap one another (gap 0).
		for i := 0; i < len(filledLumps); i++ {
			for j := i + 1; j < len(filledLumps); j++ {
				if !withinProximity(filledLumps[i].bounds, filledLumps[j].bounds, ClusterMergeProximity-1) {
					continue
				}
				filledLumps[i].points = append(filledLumps[i].points, filledLumps[j].points...)
				filledLumps[i].bounds = filledLumps[i].bounds.Union(filledLumps[j].bounds)
				filledLumps = append(filledLumps[:j], filledLumps[j+1:]...)
				mergedSomething = true
				j--
			}
		}

		if !mergedSomething {
			break
		}
	}

	clusters := make([]*CellCluster, 0, len(filledLumps))
	for _, l := range filledLumps {
		content := make(map[Point]string, len(l.points))
		for _, p := range l.points {
			content[p] = b.CanvasFilled[p].Value
		}
		clusters = append(clusters, &CellCluster{Bounds: l.bounds, Filled: content})
	}

	clusterEmpty := make([]Point, 0, len(clusterEmptySet))
	for p := range clusterEmptySet {
		clusterEmpty = append(clusterEmpty, p)
	}
	sortPoints(clusterEmpty)

	sortClusters(clusters)
	return clusters, clusterEmpty
}

func sortClusters(clusters []*CellCluster) {
	for i := 1; i < len(clusters); i++ {
		for j := i; j > 0; j-- {
			a, b := clusters[j-1].Bounds, clusters[j].Bounds
			if a.TopRow < b.TopRow || (a.TopRow == b.TopRow && a.LeftCol <= b.LeftCol) {
				break
			}
			clusters[j-1], clusters[j] = clusters[j], clusters[j-1]
		}
	}
}
