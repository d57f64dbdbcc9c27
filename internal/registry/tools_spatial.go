package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/textrux/spatial/internal/grid"
	"github.com/textrux/spatial/internal/parsecache"
	"github.com/textrux/spatial/internal/runtime"
	"github.com/textrux/spatial/internal/spatial"
	"github.com/textrux/spatial/internal/telemetry"
	"github.com/textrux/spatial/pkg/mcperr"
	"github.com/textrux/spatial/pkg/pagination"
	"github.com/textrux/spatial/pkg/validation"
)

// --- Input / Output Schemas (typed for discovery) ---

// ParseGridInput opens a grid source and runs the spatial parser over one sheet.
type ParseGridInput struct {
	Path  string `json:"path" validate:"required,filepath_ext" jsonschema_description:"Allowed path to a grid source (.xlsx, .xlsm, .xltx, .xltm, .csv, .tsv)"`
	Sheet string `json:"sheet,omitempty" jsonschema_description:"Sheet name; ignored for .csv/.tsv, defaults to the first sheet otherwise"`
}

// ParseGridOutput documents a completed parse and the ID used to page its results.
type ParseGridOutput struct {
	ParseID           string       `json:"parseId"`
	Path              string       `json:"path"`
	Sheet             string       `json:"sheet"`
	GridBounds        spatial.Rect `json:"gridBounds"`
	BlockCount        int          `json:"blockCount"`
	BlockClusterCount int          `json:"blockClusterCount"`
}

// ListBlocksInput pages through a parse's discovered blocks.
type ListBlocksInput struct {
	ParseID  string `json:"parseId" validate:"required_without=Cursor" jsonschema_description:"ID returned by parse_grid"`
	PageSize int    `json:"pageSize,omitempty" jsonschema_description:"Max blocks per page (bounded)"`
	Cursor   string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque pagination cursor; takes precedence over parseId/pageSize"`
}

// BlockSummary is one block's structural shape, without cell content.
type BlockSummary struct {
	ID               int          `json:"id"`
	Bounds           spatial.Rect `json:"bounds"`
	CellClusterCount int          `json:"cellClusterCount"`
	BorderCellCount  int          `json:"borderCellCount"`
	FrameCellCount   int          `json:"frameCellCount"`
	ConstructKeys    []string     `json:"constructKeys"`
}

// ListBlocksOutput documents a page of blocks.
type ListBlocksOutput struct {
	ParseID string         `json:"parseId"`
	Blocks  []BlockSummary `json:"blocks"`
	Meta    PageMeta       `json:"meta"`
}

// ListConstructsInput pages through every cluster's detected construct across a parse.
type ListConstructsInput struct {
	ParseID  string `json:"parseId" validate:"required_without=Cursor" jsonschema_description:"ID returned by parse_grid"`
	PageSize int    `json:"pageSize,omitempty" jsonschema_description:"Max constructs per page (bounded)"`
	Cursor   string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque pagination cursor; takes precedence over parseId/pageSize"`
}

// ConstructSummary identifies one detected construct and where it sits.
type ConstructSummary struct {
	Key     string       `json:"key"`
	Type    string       `json:"type"`
	Bounds  spatial.Rect `json:"bounds"`
	BlockID int          `json:"blockId"`
}

// ListConstructsOutput documents a page of constructs.
type ListConstructsOutput struct {
	ParseID    string             `json:"parseId"`
	Constructs []ConstructSummary `json:"constructs"`
	Meta       PageMeta           `json:"meta"`
}

// GetConstructInput looks up one construct by its key pattern.
type GetConstructInput struct {
	ParseID string `json:"parseId" validate:"required" jsonschema_description:"ID returned by parse_grid"`
	Key     string `json:"key" validate:"required,keypattern" jsonschema_description:"Construct key pattern, e.g. core-table-key-15"`
}

// GetConstructOutput is a type-specific detail view of one construct.
type GetConstructOutput struct {
	Key         string       `json:"key"`
	Type        string       `json:"type"`
	Bounds      spatial.Rect `json:"bounds"`
	Orientation string       `json:"orientation,omitempty"`

	// Table
	AttributeCount int `json:"attributeCount,omitempty"`
	EntityCount    int `json:"entityCount,omitempty"`

	// Matrix
	PrimaryEntityCount int `json:"primaryEntityCount,omitempty"`
	SecondEntityCount  int `json:"secondEntityCount,omitempty"`

	// KeyValue
	HasMainHeader bool `json:"hasMainHeader,omitempty"`
	PairCount     int  `json:"pairCount,omitempty"`

	// List
	ItemCount int    `json:"itemCount,omitempty"`
	Header    string `json:"header,omitempty"`

	// Tree
	ElementCount        int      `json:"elementCount,omitempty"`
	ParentElementCount  int      `json:"parentElementCount,omitempty"`
	ChildElementCount   int      `json:"childElementCount,omitempty"`
	PeerElementCount    int      `json:"peerElementCount,omitempty"`
	NestedConstructKeys []string `json:"nestedConstructKeys,omitempty"`
}

// RegisterSpatialTools exposes internal/spatial's Parse pipeline as an MCP
// tool surface: parse_grid runs the pipeline once and caches its result;
// list_blocks/list_constructs/get_construct page and inspect that cached
// result without reparsing. Grounded on the teacher's tools_foundation.go
// cursor/middleware wiring, scoped to the spatial parser's read-only output
// instead of live workbook cell access.
func RegisterSpatialTools(s *server.MCPServer, reg *Registry, limits runtime.Limits, grids *grid.Manager, parses *parsecache.Cache, hooks *telemetry.Hooks) {
	registerParseGrid(s, reg, limits, grids, parses, hooks)
	registerListBlocks(s, reg, limits, parses)
	registerListConstructs(s, reg, limits, parses)
	registerGetConstruct(s, reg, parses)
}

func registerParseGrid(s *server.MCPServer, reg *Registry, limits runtime.Limits, grids *grid.Manager, parses *parsecache.Cache, hooks *telemetry.Hooks) {
	tool := mcp.NewTool(
		"parse_grid",
		mcp.WithDescription("Open a grid source and run the spatial parser, returning a parse ID for follow-up listing calls"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Allowed path to a grid source (.xlsx, .xlsm, .xltx, .xltm, .csv, .tsv)")),
		mcp.WithString("sheet", mcp.Description("Sheet name; ignored for .csv/.tsv")),
		mcp.WithOutputSchema[ParseGridOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ParseGridInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		path := strings.TrimSpace(in.Path)

		handleID, err := grids.Open(ctx, path)
		if err != nil {
			return mcperr.New(mcperr.OpenFailed, err.Error()), nil
		}
		defer func() { _ = grids.CloseHandle(context.Background(), handleID) }()

		sheet := strings.TrimSpace(in.Sheet)
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".csv" || ext == ".tsv" {
			sheet = ""
		}
		if sheet == "" {
			names, nerr := grids.SheetNames(handleID)
			if nerr != nil || len(names) == 0 {
				return mcperr.New(mcperr.InvalidSheet, "grid has no sheets"), nil
			}
			sheet = names[0]
		}

		store, err := grids.Sheet(handleID, sheet)
		if err != nil {
			return mcperr.New(mcperr.InvalidSheet, err.Error()), nil
		}

		parseID := parses.NewID()
		startedAt := time.Now()
		if hooks != nil {
			hooks.OnParseStart(parseID, path, sheet)
		}
		stageFn := func(ev spatial.StageEvent) {
			if hooks != nil {
				hooks.OnParseStage(parseID, string(ev.Stage), ev.BlockID, ev.Count)
			}
		}
		result, err := spatial.Parse(ctx, store, spatial.WithMaxWorkers(int64(limits.MaxParseWorkers)), spatial.WithStageFunc(stageFn))
		if err != nil {
			return mcperr.New(mcperr.ParseFailed, err.Error()), nil
		}
		if cellCount := countFilledCells(result); cellCount > limits.MaxCellsPerParse {
			return mcperr.New(mcperr.LimitExceeded, fmt.Sprintf("grid has %d filled cells, exceeds max %d", cellCount, limits.MaxCellsPerParse)), nil
		}

		parses.StoreWithID(parseID, result)
		if hooks != nil {
			hooks.OnParseComplete(parseID, time.Since(startedAt), len(result.Blocks), len(result.BlockClusters))
		}
		out := ParseGridOutput{
			ParseID:           parseID,
			Path:              path,
			Sheet:             sheet,
			GridBounds:        result.GridBounds,
			BlockCount:        len(result.Blocks),
			BlockClusterCount: len(result.BlockClusters),
		}
		summary := fmt.Sprintf("parseId=%s sheet=%q blocks=%d blockClusters=%d", out.ParseID, out.Sheet, out.BlockCount, out.BlockClusterCount)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(tool)
}

func registerListBlocks(s *server.MCPServer, reg *Registry, limits runtime.Limits, parses *parsecache.Cache) {
	tool := mcp.NewTool(
		"list_blocks",
		mcp.WithDescription("Page through the blocks discovered by a prior parse_grid call"),
		mcp.WithString("parseId", mcp.Description("ID returned by parse_grid")),
		mcp.WithNumber("pageSize", mcp.DefaultNumber(float64(limits.PreviewRowLimit)), mcp.Min(1), mcp.Max(1000), mcp.Description("Max blocks per page")),
		mcp.WithString("cursor", mcp.Description("Opaque pagination cursor; takes precedence over parseId/pageSize")),
		mcp.WithOutputSchema[ListBlocksOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ListBlocksInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		parseID, offset, pageSize, err := resolvePage(in.ParseID, in.Cursor, in.PageSize, limits.PreviewRowLimit, pagination.RegionBlocks)
		if err != nil {
			return mcperr.New(mcperr.CursorInvalid, err.Error()), nil
		}

		result, ok := parses.Get(parseID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, "parse id not found or expired"), nil
		}

		total := len(result.Blocks)
		end := min(offset+pageSize, total)
		blocks := make([]BlockSummary, 0, max(0, end-offset))
		for _, b := range safeSlice(result.Blocks, offset, end) {
			keys := make([]string, 0, len(b.CellClusters))
			for _, cl := range b.CellClusters {
				if cl.Construct != nil {
					keys = append(keys, cl.Construct.KeyPattern())
				}
			}
			blocks = append(blocks, BlockSummary{
				ID:               b.ID,
				Bounds:           b.Bounds,
				CellClusterCount: len(b.CellClusters),
				BorderCellCount:  len(b.Border),
				FrameCellCount:   len(b.Frame),
				ConstructKeys:    keys,
			})
		}

		out := ListBlocksOutput{ParseID: parseID, Blocks: blocks, Meta: buildPageMeta(total, offset, len(blocks), parseID, pagination.RegionBlocks, pageSize)}
		summary := fmt.Sprintf("blocks returned=%d total=%d truncated=%v", out.Meta.Returned, out.Meta.Total, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(tool)
}

func registerListConstructs(s *server.MCPServer, reg *Registry, limits runtime.Limits, parses *parsecache.Cache) {
	tool := mcp.NewTool(
		"list_constructs",
		mcp.WithDescription("Page through every detected construct across a prior parse_grid call"),
		mcp.WithString("parseId", mcp.Description("ID returned by parse_grid")),
		mcp.WithNumber("pageSize", mcp.DefaultNumber(float64(limits.PreviewRowLimit)), mcp.Min(1), mcp.Max(1000), mcp.Description("Max constructs per page")),
		mcp.WithString("cursor", mcp.Description("Opaque pagination cursor; takes precedence over parseId/pageSize")),
		mcp.WithOutputSchema[ListConstructsOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ListConstructsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		parseID, offset, pageSize, err := resolvePage(in.ParseID, in.Cursor, in.PageSize, limits.PreviewRowLimit, pagination.RegionConstructs)
		if err != nil {
			return mcperr.New(mcperr.CursorInvalid, err.Error()), nil
		}

		result, ok := parses.Get(parseID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, "parse id not found or expired"), nil
		}

		all := flattenConstructs(result)
		total := len(all)
		end := min(offset+pageSize, total)
		page := safeSlice(all, offset, end)

		out := ListConstructsOutput{ParseID: parseID, Constructs: page, Meta: buildPageMeta(total, offset, len(page), parseID, pagination.RegionConstructs, pageSize)}
		summary := fmt.Sprintf("constructs returned=%d total=%d truncated=%v", out.Meta.Returned, out.Meta.Total, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(tool)
}

func registerGetConstruct(s *server.MCPServer, reg *Registry, parses *parsecache.Cache) {
	tool := mcp.NewTool(
		"get_construct",
		mcp.WithDescription("Return a type-specific detail view of one construct by its key pattern"),
		mcp.WithString("parseId", mcp.Required(), mcp.Description("ID returned by parse_grid")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Construct key pattern, e.g. core-table-key-15")),
		mcp.WithOutputSchema[GetConstructOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in GetConstructInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		parseID := strings.TrimSpace(in.ParseID)
		key := strings.TrimSpace(in.Key)

		result, ok := parses.Get(parseID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, "parse id not found or expired"), nil
		}

		construct := findConstruct(result, key)
		if construct == nil {
			return mcperr.New(mcperr.ConstructNotFound, fmt.Sprintf("no construct with key %q", key)), nil
		}

		out := describeConstruct(construct)
		summary := fmt.Sprintf("key=%s type=%s bounds=%+v", out.Key, out.Type, out.Bounds)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(tool)
}

// resolvePage decodes cursor when present (it takes precedence), otherwise
// builds a first-page request from parseID/pageSize.
func resolvePage(parseID, cursor string, pageSize, defaultPageSize int, region pagination.Region) (string, int, int, error) {
	if tok := strings.TrimSpace(cursor); tok != "" {
		c, err := pagination.DecodeCursor(tok)
		if err != nil {
			return "", 0, 0, err
		}
		if c.Rg != region {
			return "", 0, 0, fmt.Errorf("cursor region %q does not match this tool", c.Rg)
		}
		return c.Pid, c.Off, c.Ps, nil
	}
	pid := strings.TrimSpace(parseID)
	if pid == "" {
		return "", 0, 0, fmt.Errorf("parseId is required without a cursor")
	}
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = defaultPageSize
	}
	return pid, 0, pageSize, nil
}

func buildPageMeta(total, offset, returned int, parseID string, region pagination.Region, pageSize int) PageMeta {
	meta := PageMeta{Total: total, Returned: returned, Truncated: offset+returned < total}
	if meta.Truncated {
		next := pagination.Cursor{V: 1, Pid: parseID, Rg: region, Off: pagination.NextOffset(offset, returned), Ps: pageSize}
		if tok, err := pagination.EncodeCursor(next); err == nil {
			meta.NextCursor = tok
		}
	}
	return meta
}

func flattenConstructs(result *spatial.ParseResult) []ConstructSummary {
	var out []ConstructSummary
	for _, b := range result.Blocks {
		for _, cl := range b.CellClusters {
			if cl.Construct == nil {
				continue
			}
			out = append(out, ConstructSummary{
				Key:     cl.Construct.KeyPattern(),
				Type:    string(cl.Construct.Type()),
				Bounds:  cl.Construct.Bounds(),
				BlockID: b.ID,
			})
		}
	}
	return out
}

func findConstruct(result *spatial.ParseResult, key string) spatial.Construct {
	for _, b := range result.Blocks {
		for _, cl := range b.CellClusters {
			if cl.Construct != nil && cl.Construct.KeyPattern() == key {
				return cl.Construct
			}
		}
	}
	return nil
}

func describeConstruct(c spatial.Construct) GetConstructOutput {
	out := GetConstructOutput{Key: c.KeyPattern(), Type: string(c.Type()), Bounds: c.Bounds()}
	switch v := c.(type) {
	case *spatial.Table:
		out.AttributeCount = len(v.Attributes)
		out.EntityCount = len(v.Entities)
	case *spatial.Matrix:
		out.PrimaryEntityCount = len(v.PrimaryEntities)
		out.SecondEntityCount = len(v.SecondEntities)
	case *spatial.KeyValue:
		out.Orientation = string(v.Orientation)
		out.HasMainHeader = v.MainHeader != nil
		out.PairCount = len(v.Pairs)
	case *spatial.List:
		out.Orientation = string(v.Orientation)
		out.ItemCount = len(v.Items)
		out.Header = v.Header.Content
	case *spatial.Tree:
		out.Orientation = string(v.Orientation)
		out.ElementCount = len(v.Elements)
		out.ParentElementCount = len(v.ParentElements)
		out.ChildElementCount = len(v.ChildElements)
		out.PeerElementCount = len(v.PeerElements)
		for _, nested := range v.ChildConstructs {
			out.NestedConstructKeys = append(out.NestedConstructKeys, nested.KeyPattern())
		}
	}
	return out
}

func countFilledCells(result *spatial.ParseResult) int {
	n := 0
	for _, b := range result.Blocks {
		n += len(b.CanvasFilled)
	}
	return n
}

func safeSlice[T any](items []T, start, end int) []T {
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}
	if end < start {
		return nil
	}
	return items[start:end]
}
