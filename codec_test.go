package whisper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPointRoundTrip(t *testing.T) {
	cases := []Point{
		{Timestamp: 0, Value: 0},
		{Timestamp: 1700000000, Value: 3.5},
		{Timestamp: 1, Value: -1234.5678},
		{Timestamp: 4294967295, Value: 1e300},
	}

	for _, p := range cases {
		buf := make([]byte, pointSize)
		dumpPoint(p, buf)
		got := parsePoint(buf)
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("point round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	m := Metadata{
		Aggregation:  AggregationAverage,
		MaxRetention: 86400,
		XFilesFactor: 0.5,
		ArchiveCount: 3,
	}
	buf := make([]byte, metadataSize)
	dumpMetadata(m, buf)
	got := parseMetadata(buf)
	require.Equal(t, m, got)
}

func TestArchiveRoundTrip(t *testing.T) {
	a := ArchiveInfo{Offset: 16, SecondsPerPoint: 60, PointsCount: 1440}
	buf := make([]byte, archiveSize)
	dumpArchive(a, buf)
	got := parseArchive(buf)
	require.Equal(t, a, got)
}

func TestBulkPointRoundTrip(t *testing.T) {
	points := []Point{
		{Timestamp: 60, Value: 1},
		{Timestamp: 120, Value: 2},
		{Timestamp: 180, Value: 3},
	}
	buf := make([]byte, len(points)*pointSize)
	dumpPoints(points, buf)
	got := parsePoints(buf, len(points))
	if diff := cmp.Diff(points, got); diff != "" {
		t.Errorf("bulk point round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestEndianReference pins the fixed reference vector from spec §8 property 2:
// parsing 00 00 00 2A must yield 42 regardless of host endianness.
func TestEndianReference(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	p := parsePoint(buf)
	require.Equal(t, uint32(42), p.Timestamp)
}
