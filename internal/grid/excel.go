package grid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/textrux/spatial/config"
	"github.com/textrux/spatial/internal/codec"
	"github.com/textrux/spatial/internal/spatial"
)

// SheetGrid is a spatial.GridStore view over one sheet of an excelize
// workbook. Rows are snapshotted at construction time so that a Parse
// sees a stable grid even if the underlying file is later mutated or
// closed (spec: Parse runs over a filled-cell snapshot, never live I/O).
type SheetGrid struct {
	sheet string
	rows  [][]string
	cols  int
}

// NewSheetGrid snapshots sheetName out of f. Returns an error if the
// sheet does not exist.
func NewSheetGrid(f *excelize.File, sheetName string) (*SheetGrid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("grid: read sheet %q: %w", sheetName, err)
	}
	maxCols := 0
	for _, r := range rows {
		if len(r) > maxCols {
			maxCols = len(r)
		}
	}
	return &SheetGrid{sheet: sheetName, rows: rows, cols: maxCols}, nil
}

func (g *SheetGrid) NumberOfRows() int    { return len(g.rows) }
func (g *SheetGrid) NumberOfColumns() int { return g.cols }

// GetCell returns the 1-indexed (row, col) cell value, or "" if out of
// range (a row shorter than another, or a request past the snapshot).
func (g *SheetGrid) GetCell(row, col int) string {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	cells := g.rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// Handle represents an in-memory workbook reference paired with metadata
// for TTL eviction, mirroring the teacher's workbook cache.
type Handle struct {
	ID        string
	File      *excelize.File
	LoadedAt  time.Time
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// Gate coordinates capacity for open grid handles (backed by runtime.Controller).
type Gate interface {
	AcquireGrid(ctx context.Context) error
	ReleaseGrid()
}

// PathValidator abstracts filesystem path validation. Implementations
// should return a canonical absolute path if allowed, or an error when denied.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// Manager provides lifecycle hooks for opening and closing excel-backed
// grid handles, and a stateless sheet-to-GridStore accessor.
type Manager struct {
	mu           sync.RWMutex
	handles      map[string]*Handle
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	gate         Gate
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
	validator    PathValidator
}

// NewManager constructs a lifecycle manager with a TTL-bearing handle
// cache. Pass ttl or cleanupEvery <= 0 to use defaults from config.
// Gate can be nil for tests; clock defaults to time.Now when nil.
func NewManager(ttl, cleanupEvery time.Duration, gate Gate, validator PathValidator, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultGridIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultGridCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		handles:      make(map[string]*Handle),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		gate:         gate,
		validator:    validator,
		stopCh:       make(chan struct{}),
	}
}

// Start launches periodic eviction of expired handles.
func (m *Manager) Start() {
	m.cleanupWG.Add(1)
	ticker := time.NewTicker(m.cleanupEvery)
	go func() {
		defer m.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup and closes all open handles.
func (m *Manager) Close(ctx context.Context) error {
	close(m.stopCh)
	done := make(chan struct{})
	go func() { m.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, h := range m.handles {
		h.mu.Lock()
		_ = h.File.Close()
		h.mu.Unlock()
		delete(m.handles, id)
		if m.gate != nil {
			m.gate.ReleaseGrid()
		}
	}
	return nil
}

// ErrHandleNotFound indicates an unknown or expired handle ID.
var ErrHandleNotFound = errors.New("grid: handle not found")

// Open opens a workbook from the given path, registers a TTL-bearing
// handle, and returns its ID. The manager enforces open-grid capacity
// via the gate when provided, and validates the path via the configured
// PathValidator (the allow-list in internal/security).
func (m *Manager) Open(ctx context.Context, path string) (string, error) {
	if err := m.acquire(ctx); err != nil {
		return "", err
	}

	ext := strings.ToLower(pathExt(path))
	var dialect codec.Dialect
	isDelimited := false
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		// allowed excel formats
	case ".csv":
		dialect, isDelimited = codec.CSV, true
	case ".tsv":
		dialect, isDelimited = codec.TSV, true
	default:
		m.release()
		return "", fmt.Errorf("grid: unsupported format: %s", ext)
	}

	if m.validator != nil {
		canonical, err := m.validator.ValidateOpenPath(path)
		if err != nil {
			m.release()
			return "", err
		}
		path = canonical
	}

	var f *excelize.File
	var err error
	if isDelimited {
		f, err = openDelimited(path, dialect)
	} else {
		f, err = excelize.OpenFile(path)
	}
	if err != nil {
		m.release()
		return "", err
	}
	id := uuid.NewString()
	h, err := m.newHandle(id, f, m.ttl)
	if err != nil {
		_ = f.Close()
		m.release()
		return "", err
	}

	m.mu.Lock()
	m.handles[id] = h
	m.mu.Unlock()

	return id, nil
}

// openDelimited decodes a CSV/TSV file into a single-sheet excelize.File so
// that both excel and delimited sources share one Handle/GridStore path.
func openDelimited(path string, d codec.Dialect) (*excelize.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grid: read %s: %w", path, err)
	}
	records, err := codec.Decode(string(raw), d)
	if err != nil {
		return nil, fmt.Errorf("grid: decode %s: %w", path, err)
	}
	f := excelize.NewFile()
	const sheet = "Sheet1"
	for r, record := range records {
		for c, value := range record {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("grid: coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("grid: set cell: %w", err)
			}
		}
	}
	return f, nil
}

func pathExt(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func (m *Manager) newHandle(id string, file *excelize.File, ttl time.Duration) (*Handle, error) {
	if file == nil {
		return nil, fmt.Errorf("grid: nil excelize file")
	}
	if id == "" {
		return nil, fmt.Errorf("grid: empty handle id")
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	loadedAt := m.clock()
	return &Handle{ID: id, File: file, LoadedAt: loadedAt, ExpiresAt: loadedAt.Add(ttl)}, nil
}

// Adopt registers an existing excelize.File as a managed handle.
// Intended for tests or advanced flows.
func (m *Manager) Adopt(ctx context.Context, f *excelize.File) (string, error) {
	if f == nil {
		return "", fmt.Errorf("grid: nil file")
	}
	if err := m.acquire(ctx); err != nil {
		return "", err
	}
	id := uuid.NewString()
	h, err := m.newHandle(id, f, m.ttl)
	if err != nil {
		m.release()
		return "", err
	}
	m.mu.Lock()
	m.handles[id] = h
	m.mu.Unlock()
	return id, nil
}

// Get returns the handle when present and refreshes its TTL.
func (m *Manager) Get(id string) (*Handle, bool) {
	m.mu.RLock()
	h, ok := m.handles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := m.clock()
	h.mu.Lock()
	h.ExpiresAt = now.Add(m.ttl)
	h.mu.Unlock()
	return h, true
}

// Sheet snapshots a sheet of the handle's workbook as a spatial.GridStore,
// suitable for a single Parse call.
func (m *Manager) Sheet(id, sheetName string) (spatial.GridStore, error) {
	h, ok := m.Get(id)
	if !ok {
		return nil, ErrHandleNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return NewSheetGrid(h.File, sheetName)
}

// SheetNames lists the handle's sheets.
func (m *Manager) SheetNames(id string) ([]string, error) {
	h, ok := m.Get(id)
	if !ok {
		return nil, ErrHandleNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.File.GetSheetList(), nil
}

// CloseHandle closes and removes a handle by ID, releasing capacity via the gate.
func (m *Manager) CloseHandle(ctx context.Context, id string) error {
	m.mu.Lock()
	h, ok := m.handles[id]
	if ok {
		delete(m.handles, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrHandleNotFound
	}
	h.mu.Lock()
	err := h.File.Close()
	h.mu.Unlock()
	m.release()
	return err
}

// EvictExpired scans for expired handles and closes them.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []*Handle
	var expiredIDs []string

	m.mu.RLock()
	for id, h := range m.handles {
		h.mu.RLock()
		isExpired := now.After(h.ExpiresAt)
		h.mu.RUnlock()
		if isExpired {
			expired = append(expired, h)
			expiredIDs = append(expiredIDs, id)
		}
	}
	m.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	for i, h := range expired {
		h.mu.Lock()
		_ = h.File.Close()
		h.mu.Unlock()

		m.mu.Lock()
		delete(m.handles, expiredIDs[i])
		m.mu.Unlock()
		m.release()
	}
}

// Count returns the current number of cached handles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

func (m *Manager) acquire(ctx context.Context) error {
	if m.gate == nil {
		return nil
	}
	return m.gate.AcquireGrid(ctx)
}

func (m *Manager) release() {
	if m.gate == nil {
		return
	}
	m.gate.ReleaseGrid()
}

// Expired reports whether the handle has reached its TTL.
func (h *Handle) Expired(now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return now.After(h.ExpiresAt)
}
