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

import (
	"encoding/binary"
	"math"
)

// This file is the binary codec: pure big-endian parse/dump of the three
// on-disk record types. The single-record functions and the dump functions
// work only on buffers the caller supplies and do not allocate; the bulk
// parse functions (parsePoints, parseArchives) allocate the slice they
// return. It never touches I/O. None of these functions assume natural
// alignment of the source or destination buffer.

// parsePoint decodes a 12-byte big-endian record into a Point.
func parsePoint(buf []byte) Point {
	return Point{
		Timestamp: binary.BigEndian.Uint32(buf[0:4]),
		Value:     math.Float64frombits(binary.BigEndian.Uint64(buf[4:12])),
	}
}

// dumpPoint encodes p into the 12-byte buffer buf.
func dumpPoint(p Point, buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], p.Timestamp)
	binary.BigEndian.PutUint64(buf[4:12], math.Float64bits(p.Value))
}

// parsePoints decodes a contiguous run of points from buf.
func parsePoints(buf []byte, count int) []Point {
	points := make([]Point, count)
	for i := 0; i < count; i++ {
		points[i] = parsePoint(buf[i*pointSize : i*pointSize+pointSize])
	}
	return points
}

// dumpPoints encodes points into buf, which must be len(points)*pointSize
// bytes long.
func dumpPoints(points []Point, buf []byte) {
	for i, p := range points {
		dumpPoint(p, buf[i*pointSize:i*pointSize+pointSize])
	}
}

// parseMetadata decodes the 16-byte file header.
func parseMetadata(buf []byte) Metadata {
	return Metadata{
		Aggregation:  AggregationMethod(binary.BigEndian.Uint32(buf[0:4])),
		MaxRetention: binary.BigEndian.Uint32(buf[4:8]),
		XFilesFactor: math.Float32frombits(binary.BigEndian.Uint32(buf[8:12])),
		ArchiveCount: binary.BigEndian.Uint32(buf[12:16]),
	}
}

// dumpMetadata encodes m into the 16-byte buffer buf.
func dumpMetadata(m Metadata, buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(m.Aggregation))
	binary.BigEndian.PutUint32(buf[4:8], m.MaxRetention)
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(m.XFilesFactor))
	binary.BigEndian.PutUint32(buf[12:16], m.ArchiveCount)
}

// parseArchive decodes a 12-byte archive descriptor.
func parseArchive(buf []byte) ArchiveInfo {
	return ArchiveInfo{
		Offset:          binary.BigEndian.Uint32(buf[0:4]),
		SecondsPerPoint: binary.BigEndian.Uint32(buf[4:8]),
		PointsCount:     binary.BigEndian.Uint32(buf[8:12]),
	}
}

// dumpArchive encodes a into the 12-byte buffer buf.
func dumpArchive(a ArchiveInfo, buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], a.Offset)
	binary.BigEndian.PutUint32(buf[4:8], a.SecondsPerPoint)
	binary.BigEndian.PutUint32(buf[8:12], a.PointsCount)
}

// parseArchives decodes count contiguous archive descriptors from buf.
func parseArchives(buf []byte, count int) []ArchiveInfo {
	archives := make([]ArchiveInfo, count)
	for i := 0; i < count; i++ {
		archives[i] = parseArchive(buf[i*archiveSize : i*archiveSize+archiveSize])
	}
	return archives
}

// dumpArchives encodes archives into buf, which must be
// len(archives)*archiveSize bytes long.
func dumpArchives(archives []ArchiveInfo, buf []byte) {
	for i, a := range archives {
		dumpArchive(a, buf[i*archiveSize:i*archiveSize+archiveSize])
	}
}
