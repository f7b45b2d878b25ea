// {{{ Copyright (c) Paul R. Tagliamonte <paultag@gmail.com> 2020-2021
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package whisper

const (
	metadataSize = 16 // aggregation(4) + max_retention(4) + xff(4) + archives_count(4)
	archiveSize  = 12 // offset(4) + seconds_per_point(4) + points_count(4)
	pointSize    = 12 // timestamp(4) + value(8)
)

// AggregationMethod is the closed set of functions used to consolidate
// finer-grained points into a coarser archive slot.
type AggregationMethod uint32

const (
	AggregationAverage AggregationMethod = 1
	AggregationSum     AggregationMethod = 2
	AggregationLast    AggregationMethod = 3
	AggregationMax     AggregationMethod = 4
	AggregationMin     AggregationMethod = 5
)

func (a AggregationMethod) String() string {
	switch a {
	case AggregationAverage:
		return "average"
	case AggregationSum:
		return "sum"
	case AggregationLast:
		return "last"
	case AggregationMax:
		return "max"
	case AggregationMin:
		return "min"
	default:
		return "unknown"
	}
}

func (a AggregationMethod) valid() bool {
	switch a {
	case AggregationAverage, AggregationSum, AggregationLast, AggregationMax, AggregationMin:
		return true
	default:
		return false
	}
}

// Mapping selects the I/O backend used to open a file.
type Mapping int

const (
	// MappingFile uses positioned reads/writes against the open file.
	MappingFile Mapping = iota
	// MappingMmap maps the whole file and reads/writes through the mapping.
	MappingMmap
)

// Metadata is the 16-byte file header.
type Metadata struct {
	Aggregation   AggregationMethod
	MaxRetention  uint32
	XFilesFactor  float32
	ArchiveCount  uint32
}

// ArchiveInfo describes one archive's position and shape within the file.
type ArchiveInfo struct {
	Offset          uint32
	SecondsPerPoint uint32
	PointsCount     uint32
}

// Retention is the time window, in seconds, this archive covers.
func (a ArchiveInfo) Retention() uint32 {
	return a.SecondsPerPoint * a.PointsCount
}

// Size is the byte size of the archive's point body.
func (a ArchiveInfo) Size() uint32 {
	return a.PointsCount * pointSize
}

// End is the absolute byte offset one past the archive's last point.
func (a ArchiveInfo) End() uint32 {
	return a.Offset + a.Size()
}

// Point is a single (timestamp, value) sample. A zero Timestamp marks an
// empty ring slot.
type Point struct {
	Timestamp uint32
	Value     float64
}

// Empty reports whether p is an unwritten ring slot.
func (p Point) Empty() bool {
	return p.Timestamp == 0
}
