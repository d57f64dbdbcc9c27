package grid

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeGate implements Gate for tests with counters.
type fakeGate struct {
	acquireErr error
	acquires   atomic.Int64
	releases   atomic.Int64
}

func (g *fakeGate) AcquireGrid(ctx context.Context) error {
	g.acquires.Add(1)
	return g.acquireErr
}
func (g *fakeGate) ReleaseGrid() { g.releases.Add(1) }

func TestAdoptGetClose(t *testing.T) {
	gate := &fakeGate{}
	m := NewManager(2*time.Second, time.Second, gate, nil, time.Now)

	f := excelize.NewFile()
	id, err := m.Adopt(context.Background(), f)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, 1, m.Count())

	h, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, id, h.ID)

	require.NoError(t, m.CloseHandle(context.Background(), id))
	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestTTLExpiryAndEviction(t *testing.T) {
	var now atomic.Int64
	now.Store(time.Now().UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	gate := &fakeGate{}
	m := NewManager(50*time.Millisecond, 5*time.Millisecond, gate, nil, clock)

	_, err := m.Adopt(context.Background(), excelize.NewFile())
	require.NoError(t, err)
	require.Equal(t, 1, m.Count())

	now.Store(time.Now().Add(200 * time.Millisecond).UnixNano())
	m.EvictExpired()

	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestOpenUnsupportedFormatReleasesGate(t *testing.T) {
	gate := &fakeGate{}
	m := NewManager(time.Second, time.Second, gate, nil, time.Now)

	_, err := m.Open(context.Background(), "not_excel.txt")
	require.Error(t, err)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestOpenGateBusy(t *testing.T) {
	gate := &fakeGate{acquireErr: context.DeadlineExceeded}
	m := NewManager(time.Second, time.Second, gate, nil, time.Now)

	_, err := m.Open(context.Background(), "sheet.xlsx")
	require.Error(t, err)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, int64(0), gate.releases.Load())
}

type denyValidator struct{}

func (denyValidator) ValidateOpenPath(string) (string, error) { return "", fmt.Errorf("denied") }

func TestOpenPathValidatorDeniedReleasesGate(t *testing.T) {
	gate := &fakeGate{}
	m := NewManager(time.Second, time.Second, gate, denyValidator{}, time.Now)

	_, err := m.Open(context.Background(), "ok.xlsx")
	require.Error(t, err)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestSheetSnapshotServesAsGridStore(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, nil, time.Now)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Age"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Ada"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 30))

	id, err := m.Adopt(context.Background(), f)
	require.NoError(t, err)

	names, err := m.SheetNames(id)
	require.NoError(t, err)
	require.Contains(t, names, "Sheet1")

	store, err := m.Sheet(id, "Sheet1")
	require.NoError(t, err)
	require.Equal(t, 2, store.NumberOfRows())
	require.Equal(t, 2, store.NumberOfColumns())
	require.Equal(t, "Name", store.GetCell(1, 1))
	require.Equal(t, "30", store.GetCell(2, 2))
	require.Equal(t, "", store.GetCell(5, 5))
}

func TestSheetUnknownSheetErrors(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, nil, time.Now)
	id, err := m.Adopt(context.Background(), excelize.NewFile())
	require.NoError(t, err)

	_, err = m.Sheet(id, "DoesNotExist")
	require.Error(t, err)
}
