package spatial

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// defaultParallelism bounds how many blocks/clusters are finalized or
// built concurrently when the caller does not override it with
// WithMaxWorkers. Parse itself holds no state across calls; this only
// gates goroutine fan-out for a single invocation (spec §5).
const defaultParallelism = 4

// ParseResult is the full, immutable output of a single Parse call
// (spec §3). Every Block/CellCluster/Construct value is produced once
// and never mutated after Parse returns.
type ParseResult struct {
	GridBounds    Rect
	Blocks        []*Block
	BlockClusters []*BlockCluster
}

// ParseStage names a pipeline boundary at which an optional StageFunc is
// notified (spec §5 per-stage instrumentation/cancellation points).
type ParseStage string

const (
	StageBlocksDiscovered ParseStage = "blocks_discovered"
	StageBlockFinalized   ParseStage = "block_finalized"
	StageConstructBuilt   ParseStage = "construct_built"
)

// StageEvent carries minimal detail about one stage boundary. BlockID is
// 0 for StageBlocksDiscovered, which is not block-specific; Count is the
// total block count for that stage and 0 otherwise.
type StageEvent struct {
	Stage   ParseStage
	BlockID int
	Count   int
}

// StageFunc observes pipeline stage boundaries. Parse calls it
// synchronously and, for StageBlockFinalized/StageConstructBuilt, from
// whichever worker goroutine reaches that stage, so implementations must
// be safe for concurrent use. A nil StageFunc (the default) means Parse
// emits no notifications; this keeps Parse itself free of logging or
// other I/O (spec: "performs no I/O and holds no state") while still
// letting a caller observe stage boundaries.
type StageFunc func(StageEvent)

type parseConfig struct {
	gridBounds    Rect
	hasGridBounds bool
	maxWorkers    int64
	stage         StageFunc
}

// ParseOption configures a single Parse/ParseCells call.
type ParseOption func(*parseConfig)

// WithStageFunc registers an observer called at block-discovery,
// per-block-finalization, and per-cluster-construct-build boundaries.
func WithStageFunc(fn StageFunc) ParseOption {
	return func(c *parseConfig) { c.stage = fn }
}

// WithGridBounds fixes the grid extent used to clip border/frame rings.
// Without it, Parse uses rows 1..NumberOfRows and columns
// 1..NumberOfColumns of the store, and ParseCells uses the bounding box of
// the supplied cells, which clips frames for blocks at the data's edge.
func WithGridBounds(r Rect) ParseOption {
	return func(c *parseConfig) { c.gridBounds = r; c.hasGridBounds = true }
}

// WithMaxWorkers bounds concurrent block-finalization/construct-build
// goroutines. n <= 0 is treated as defaultParallelism.
func WithMaxWorkers(n int64) ParseOption {
	return func(c *parseConfig) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// Parse runs the full pipeline against a GridStore: block discovery,
// per-block finalization (canvas/border/frame, cell clusters), block-join
// and block-cluster detection, and per-cluster construct detection and
// building, including recursive tree-domain reparsing.
func Parse(ctx context.Context, store GridStore, opts ...ParseOption) (*ParseResult, error) {
	cells := BuildFilledSet(store)
	cfg := configure(opts)
	if !cfg.hasGridBounds {
		cfg.gridBounds = Rect{TopRow: 1, BottomRow: store.NumberOfRows(), LeftCol: 1, RightCol: store.NumberOfColumns()}
		cfg.hasGridBounds = true
	}
	return parse(ctx, cells, cfg)
}

// ParseCells runs the same pipeline over an explicit cell slice, for
// callers without a backing GridStore (e.g. a CSV/TSV load). Coordinates
// are validated; a non-positive row/col raises InvalidCoordinate.
func ParseCells(ctx context.Context, cells []Cell, opts ...ParseOption) (*ParseResult, error) {
	return parse(ctx, cells, configure(opts))
}

func configure(opts []ParseOption) parseConfig {
	cfg := parseConfig{maxWorkers: defaultParallelism}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func parse(ctx context.Context, cells []Cell, cfg parseConfig) (*ParseResult, error) {
	filled, err := ValidateCells(cells)
	if err != nil {
		return nil, err
	}
	if len(filled) == 0 {
		return &ParseResult{}, nil
	}

	blocks := discoverBlocks(filled)
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i].Bounds, blocks[j].Bounds
		if a.TopRow != b.TopRow {
			return a.TopRow < b.TopRow
		}
		return a.LeftCol < b.LeftCol
	})
	for i, b := range blocks {
		b.ID = i + 1
	}
	if cfg.stage != nil {
		cfg.stage(StageEvent{Stage: StageBlocksDiscovered, Count: len(blocks)})
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	gridBounds := cfg.gridBounds
	if !cfg.hasGridBounds {
		gridBounds = dataBounds(filled)
	}

	if err := finalizeBlocksConcurrently(ctx, blocks, gridBounds, cfg.maxWorkers, cfg.stage); err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	if err := buildConstructsConcurrently(ctx, blocks, cfg.maxWorkers, cfg.stage); err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	joins := detectJoins(blocks)
	blockClusters := groupBlockClusters(blocks, joins)
	sort.Slice(blockClusters, func(i, j int) bool {
		a, b := blockClusters[i].CanvasBounds, blockClusters[j].CanvasBounds
		if a.TopRow != b.TopRow {
			return a.TopRow < b.TopRow
		}
		return a.LeftCol < b.LeftCol
	})

	return &ParseResult{GridBounds: gridBounds, Blocks: blocks, BlockClusters: blockClusters}, nil
}

func dataBounds(filled map[Point]Cell) Rect {
	pts := make([]Point, 0, len(filled))
	for p := range filled {
		pts = append(pts, p)
	}
	return boundingBox(pts)
}

func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return newError(Cancelled, "%v", ctx.Err())
	default:
		return nil
	}
}

// finalizeBlocksConcurrently runs finalizeBlock over disjoint blocks in
// parallel, bounded by a weighted semaphore. Blocks own disjoint canvases
// after Step B of block discovery, so no cross-block mutation occurs.
func finalizeBlocksConcurrently(ctx context.Context, blocks []*Block, gridBounds Rect, maxWorkers int64, stage StageFunc) error {
	sem := semaphore.NewWeighted(maxWorkers)
	g, gctx := errgroup.WithContext(ctx)

	otherBoundsFor := func(skip *Block) []Rect {
		bounds := make([]Rect, 0, len(blocks)-1)
		for _, b := range blocks {
			if b != skip {
				bounds = append(bounds, b.Bounds)
			}
		}
		return bounds
	}

	for _, b := range blocks {
		b := b
		if err := sem.Acquire(gctx, 1); err != nil {
			return newError(Cancelled, "%v", err)
		}
		g.Go(func() error {
			defer sem.Release(1)
			finalizeBlock(b, gridBounds, otherBoundsFor(b))
			if stage != nil {
				stage(StageEvent{Stage: StageBlockFinalized, BlockID: b.ID})
			}
			return nil
		})
	}
	return g.Wait()
}

// buildConstructsConcurrently assigns each block's clusters their key,
// orientation and construct in parallel, bounded the same way. Clusters
// within a block are likewise disjoint by construction.
func buildConstructsConcurrently(ctx context.Context, blocks []*Block, maxWorkers int64, stage StageFunc) error {
	sem := semaphore.NewWeighted(maxWorkers)
	g, gctx := errgroup.WithContext(ctx)

	for _, b := range blocks {
		b := b
		for _, cl := range b.CellClusters {
			cl := cl
			if len(cl.Filled) == 0 {
				continue
			}
			if err := sem.Acquire(gctx, 1); err != nil {
				return newError(Cancelled, "%v", err)
			}
			g.Go(func() error {
				defer sem.Release(1)
				buildConstruct(cl)
				if stage != nil {
					stage(StageEvent{Stage: StageConstructBuilt, BlockID: b.ID})
				}
				return nil
			})
		}
	}
	return g.Wait()
}

// buildConstruct detects a cluster's variant (honoring any forced override)
// and invokes the matching builder, storing the result on the cluster.
func buildConstruct(c *CellCluster) {
	switch detectType(c) {
	case TypeTable:
		c.Construct = buildTable(c)
	case TypeMatrix:
		c.Construct = buildMatrix(c)
	case TypeKeyValue:
		c.Construct = buildKeyValue(c)
	case TypeList:
		c.Construct = buildList(c)
	default:
		c.Construct = buildTree(c)
	}
}
