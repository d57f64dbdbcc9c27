package spatial

// BlockMergeProximity is the default proximity bound for Step B of block
// discovery: two blocks merge when the rectilinear gap between their
// bounding boxes is at most this value on both axes (spec.md §8: gap = 2
// still merges, gap = 3 does not).
const BlockMergeProximity = 2

// ClusterMergeProximity is the proximity bound used when stabilizing
// cell-cluster lumps within a block's canvas (spec §4.1 Step C.5).
const ClusterMergeProximity = 1

// Block is a maximal group of filled cells merged under proximity-2
// bounding-box adjacency, together with its canvas/border/frame rings and
// cell clusters (spec §3 Block).
type Block struct {
	ID           int
	Bounds       Rect
	CanvasFilled map[Point]Cell
	CanvasEmpty  []Point
	CellClusters []*CellCluster
	ClusterEmpty []Point
	Border       []Point
	Frame        []Point
}

// discoverBlocks runs Step A (8-neighbor BFS) and Step B (proximity-2
// bbox merge) of block discovery over the filled-cell index. The result
// is invariant under input ordering: merge is commutative/associative, so
// confluence guarantees a unique fixed point regardless of scan order.
func discoverBlocks(filled map[Point]Cell) []*Block {
	if len(filled) == 0 {
		return nil
	}
	present := make(map[Point]struct{}, len(filled))
	for p := range filled {
		present[p] = struct{}{}
	}

	type seed struct {
		points []Point
		bounds Rect
	}
	var seeds []seed
	for _, comp := range connectedComponents(present) {
		seeds = append(seeds, seed{points: comp, bounds: boundingBox(comp)})
	}

	// Step B: repeatedly merge pairs whose bboxes are within proximity 2
	// until no pair qualifies. O(n^2) per pass is acceptable: block counts
	// are small relative to cell counts for any realistic sparse grid.
	for {
		mergedAny := false
		for i := 0; i < len(seeds); i++ {
			for j := i + 1; j < len(seeds); j++ {
				if !withinProximity(seeds[i].bounds, seeds[j].bounds, BlockMergeProximity) {
					continue
				}
				seeds[i].points = append(seeds[i].points, seeds[j].points...)
				seeds[i].bounds = seeds[i].bounds.Union(seeds[j].bounds)
				seeds = append(seeds[:j], seeds[j+1:]...)
				mergedAny = true
				break
			}
			if mergedAny {
				break
			}
		}
		if !mergedAny {
			break
		}
	}

	blocks := make([]*Block, 0, len(seeds))
	for i, s := range seeds {
		canvasFilled := make(map[Point]Cell, len(s.points))
		for _, p := range s.points {
			canvasFilled[p] = filled[p]
		}
		blocks = append(blocks, &Block{ID: i + 1, Bounds: s.bounds, CanvasFilled: canvasFilled})
	}
	return blocks
}
