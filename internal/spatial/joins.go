package spatial

import "sort"

// JoinKind classifies how two blocks' border/frame rings intersect.
type JoinKind string

const (
	Linked JoinKind = "linked"
	Locked JoinKind = "locked"
)

// BlockJoin records an adjacency relation between two blocks (spec §3 BlockJoin).
type BlockJoin struct {
	A, B        *Block
	Kind        JoinKind
	LinkedCells []Point
	LockedCells []Point
}

// BlockCluster is a connected group of blocks closed under the join
// relation (spec §3 BlockCluster).
type BlockCluster struct {
	Blocks       []*Block
	Joins        []*BlockJoin
	CanvasBounds Rect
	LinkedCells  []Point
	LockedCells  []Point
}

// detectJoins evaluates every unordered pair of blocks for a join (spec §4.2).
func detectJoins(blocks []*Block) []*BlockJoin {
	var joins []*BlockJoin
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			a, b := blocks[i], blocks[j]
			ff := intersectPoints(a.Frame, b.Frame)
			bf := intersectPoints(a.Border, b.Frame)
			fb := intersectPoints(a.Frame, b.Border)

			locked := append(append([]Point{}, bf...), fb...)
			switch {
			case len(locked) > 0:
				joins = append(joins, &BlockJoin{A: a, B: b, Kind: Locked, LockedCells: dedupPoints(locked), LinkedCells: ff})
			case len(ff) > 0:
				joins = append(joins, &BlockJoin{A: a, B: b, Kind: Linked, LinkedCells: ff})
			}
		}
	}
	return joins
}

func intersectPoints(a, b []Point) []Point {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[Point]struct{}, len(a))
	for _, p := range a {
		set[p] = struct{}{}
	}
	var out []Point
	for _, p := range b {
		if _, ok := set[p]; ok {
			out = append(out, p)
		}
	}
	sortPoints(out)
	return out
}

func dedupPoints(pts []Point) []Point {
	seen := make(map[Point]struct{}, len(pts))
	out := pts[:0:0]
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sortPoints(out)
	return out
}

// groupBlockClusters runs BFS over the join graph to produce connected
// block clusters (spec §4.2).
func groupBlockClusters(blocks []*Block, joins []*BlockJoin) []*BlockCluster {
	adj := make(map[*Block][]*BlockJoin, len(blocks))
	for _, j := range joins {
		adj[j.A] = append(adj[j.A], j)
		adj[j.B] = append(adj[j.B], j)
	}

	visited := make(map[*Block]bool, len(blocks))
	var clusters []*BlockCluster

	for _, start := range blocks {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []*Block{start}
		members := []*Block{start}
		joinSet := make(map[*BlockJoin]struct{})

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, j := range adj[cur] {
				joinSet[j] = struct{}{}
				other := j.A
				if other == cur {
					other = j.B
				}
				if !visited[other] {
					visited[other] = true
					members = append(members, other)
					queue = append(queue, other)
				}
			}
		}

		bc := &BlockCluster{Blocks: members}
		bc.CanvasBounds = members[0].Bounds
		for _, m := range members[1:] {
			bc.CanvasBounds = bc.CanvasBounds.Union(m.Bounds)
		}

		var linked, locked []Point
		for j := range joinSet {
			bc.Joins = append(bc.Joins, j)
			linked = append(linked, j.LinkedCells...)
			locked = append(locked, j.LockedCells...)
		}
		bc.LinkedCells = dedupPoints(linked)
		bc.LockedCells = dedupPoints(locked)

		// joinSet iteration order is randomized per run; stabilize Joins by
		// the pair of block IDs so repeated parses of the same input agree
		// (spec §5 determinism, §8 idempotence).
		sort.Slice(bc.Joins, func(i, j int) bool {
			ai, aj := joinBlockIDs(bc.Joins[i]), joinBlockIDs(bc.Joins[j])
			if ai[0] != aj[0] {
				return ai[0] < aj[0]
			}
			if ai[1] != aj[1] {
				return ai[1] < aj[1]
			}
			return bc.Joins[i].Kind < bc.Joins[j].Kind
		})

		clusters = append(clusters, bc)
	}
	return clusters
}

// joinBlockIDs returns j's two block IDs in ascending order, for stable
// sorting independent of which side of the join A/B landed on.
func joinBlockIDs(j *BlockJoin) [2]int {
	a, b := j.A.ID, j.B.ID
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
