package whisper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingSlot(t *testing.T) {
	// Property #4: the ring formula is ((t-base)/spp) mod count, corrected
	// for negative steps when t predates base.
	require.Equal(t, 9, ringSlot(0, 540, 60, 10))
	require.Equal(t, 0, ringSlot(60, 60, 60, 10))
	require.Equal(t, 9, ringSlot(60, 0, 60, 10))
}

func TestUpdateWritesExpectedSlot(t *testing.T) {
	// A single-archive update against an untouched (all-zero) file anchors
	// the ring at epoch zero, so the write lands wherever the general
	// formula says — there is no hardcoded slot for the first point.
	archives := archiveList([2]uint32{60, 10})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 600 }

	require.NoError(t, h.Update(Point{Timestamp: 540, Value: 1.5}))

	p, err := h.LoadPoint(h.Archives()[0], 9)
	require.NoError(t, err)
	require.Equal(t, Point{Timestamp: 540, Value: 1.5}, p)

	// every other slot is still untouched
	for i := 0; i < 9; i++ {
		p, err := h.LoadPoint(h.Archives()[0], i)
		require.NoError(t, err)
		require.True(t, p.Empty())
	}
}

func TestUpdateRejectsFutureTimestamp(t *testing.T) {
	archives := archiveList([2]uint32{60, 10})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 100 }

	require.ErrorIs(t, h.Update(Point{Timestamp: 200, Value: 1}), ErrFutureTimestamp)
}

func TestUpdateRejectsExpiredTimestamp(t *testing.T) {
	archives := archiveList([2]uint32{60, 10}) // retention 600
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 1000 }

	require.ErrorIs(t, h.Update(Point{Timestamp: 1, Value: 1}), ErrRetention)
}

// buildPropagationFixture writes four observations, one per minute, into a
// finer (spp=60, count=4) archive feeding a coarser (spp=240, count=5)
// archive, returning the open handle with h.now fixed at the last write.
func buildPropagationFixture(t *testing.T, xff float32) *Handle {
	t.Helper()

	archives := archiveList([2]uint32{60, 4}, [2]uint32{240, 5})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: xff,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	h := &Handle{}
	require.NoError(t, h.Open(path, MappingFile))
	h.now = func() uint32 { return 240 }

	for _, obs := range []Point{
		{Timestamp: 60, Value: 10},
		{Timestamp: 120, Value: 20},
		{Timestamp: 180, Value: 30},
		{Timestamp: 240, Value: 40},
	} {
		require.NoError(t, h.Update(obs))
	}
	return h
}

func TestPropagationThresholdMet(t *testing.T) {
	// Scenario S3: after the fourth write, the coarser archive's window for
	// timestamp 240 has exactly one of its four finer slots known (the
	// point just written); with xff equal to that ratio, propagation fires.
	h := buildPropagationFixture(t, 0.25)
	defer h.Close()

	coarse := h.Archives()[1]
	slot, err := h.slotFor(coarse, 240)
	require.NoError(t, err)
	p, err := h.LoadPoint(coarse, slot)
	require.NoError(t, err)
	require.Equal(t, Point{Timestamp: 240, Value: 40}, p)
}

func TestPropagationThresholdNotMet(t *testing.T) {
	// Scenario S4: same fixture, but xff demands more known finer points
	// than are actually present in the coarser window for 240, so no point
	// with a timestamp reaches the coarser archive. (The earlier writes fall
	// in the window starting at 0, which can only be stored under timestamp
	// 0 and therefore reads as an empty slot.)
	h := buildPropagationFixture(t, 0.5)
	defer h.Close()

	coarse := h.Archives()[1]
	points, err := h.LoadAllPoints(coarse)
	require.NoError(t, err)
	for _, p := range points {
		require.True(t, p.Empty())
	}
}

func TestLoadTimeRangeWrap(t *testing.T) {
	// Scenario S5: a range query whose slot window wraps past the end of
	// the ring returns the finer-archive slots in ring order regardless —
	// LoadTimeRange decodes a slot window, it does not filter by contiguity.
	archives := archiveList([2]uint32{60, 10})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	archive := archives[0]
	for i := 0; i < 10; i++ {
		writeRawPoint(t, path, archive, i, Point{Timestamp: uint32(60 * (i + 1)), Value: float64(i)})
	}

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 600 }

	points, err := h.LoadTimeRange(archive, 480, 840)
	require.NoError(t, err)

	want := []uint32{480, 540, 600, 60, 120, 180}
	require.Len(t, points, len(want))
	for i, ts := range want {
		require.Equal(t, ts, points[i].Timestamp, "point %d", i)
	}
}

func TestLoadTimeRangeRejectsInvertedInterval(t *testing.T) {
	archives := archiveList([2]uint32{60, 10})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()

	_, err := h.LoadTimeRange(archives[0], 100, 100)
	require.ErrorIs(t, err, ErrTimeInterval)
}

func TestLoadTimeRangeEmptyArchive(t *testing.T) {
	archives := archiveList([2]uint32{60, 10})
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 600 }

	points, err := h.LoadTimeRange(archives[0], 0, 600)
	require.NoError(t, err)
	require.Nil(t, points)
}

func TestLoadTimeRangeClampsToRetention(t *testing.T) {
	archives := archiveList([2]uint32{60, 10}) // retention 600
	path := buildFile(t, Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: retentionOf(archives),
		XFilesFactor: 0.5,
		ArchiveCount: uint32(len(archives)),
	}, archives)

	archive := archives[0]
	for i := 0; i < 10; i++ {
		writeRawPoint(t, path, archive, i, Point{Timestamp: uint32(60 * (i + 1)), Value: float64(i)})
	}

	var h Handle
	require.NoError(t, h.Open(path, MappingFile))
	defer h.Close()
	h.now = func() uint32 { return 1200 } // retention window is now [600, 1200)

	points, err := h.LoadTimeRange(archive, 0, 660)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, uint32(600), points[0].Timestamp)
}
