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

import "sync"

// Handle is a file opened for reading and mutation. It owns exactly one
// backend and the cached archive-descriptor vector; both are released on
// Close. Point arrays returned by the Load* methods are transient decode
// results owned by the caller — Handle never caches them.
//
// A Handle is not safe for concurrent use from multiple goroutines; see
// spec §5.
type Handle struct {
	mutex sync.Mutex

	backend  Backend
	meta     Metadata
	archives []ArchiveInfo
	isOpen   bool

	now func() uint32 // overridable time source, see timeutil.go
}

// Open opens path using the given mapping mode, parses and validates the
// file header and archive table, and caches both on the Handle.
func (h *Handle) Open(path string, mapping Mapping) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.isOpen {
		return ErrAlreadyOpen
	}

	var backend Backend
	switch mapping {
	case MappingMmap:
		backend = &mmapBackend{}
	case MappingFile:
		backend = &streamBackend{}
	default:
		return newErr(KindIO, nil)
	}

	if err := backend.Open(path); err != nil {
		return err
	}

	meta, archives, err := loadHeader(backend)
	if err != nil {
		backend.Close()
		return err
	}

	if err := validateArchives(archives); err != nil {
		backend.Close()
		return err
	}

	if !meta.Aggregation.valid() {
		backend.Close()
		return ErrUnknownAggregation
	}

	if expected := retentionOf(archives); meta.MaxRetention != expected {
		backend.Close()
		return ErrArchiveMisaligned
	}

	h.backend = backend
	h.meta = meta
	h.archives = archives
	h.isOpen = true
	if h.now == nil {
		h.now = nowUnix
	}
	return nil
}

// Close releases the cached archive vector, closes the backend, and zeroes
// the cached state. It is idempotent.
func (h *Handle) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return nil
	}

	err := h.backend.Close()
	h.backend = nil
	h.archives = nil
	h.meta = Metadata{}
	h.isOpen = false
	return err
}

// Sync flushes any buffered writes to stable storage.
func (h *Handle) Sync() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return ErrNotOpen
	}
	return h.backend.Sync()
}

// Metadata returns the cached file header.
func (h *Handle) Metadata() Metadata {
	return h.meta
}

// Archives returns the cached archive descriptors, ordered finest first.
func (h *Handle) Archives() []ArchiveInfo {
	return h.archives
}

// LoadAllPoints decodes the entire body of archive in one read.
func (h *Handle) LoadAllPoints(archive ArchiveInfo) ([]Point, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return nil, ErrNotOpen
	}
	return h.loadPoints(archive, 0, int(archive.PointsCount))
}

// LoadPoint reads a single ring slot by index.
func (h *Handle) LoadPoint(archive ArchiveInfo, slotIndex int) (Point, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return Point{}, ErrNotOpen
	}
	if slotIndex < 0 || slotIndex >= int(archive.PointsCount) {
		return Point{}, ErrPointOutOfBounds
	}

	rb, err := h.backend.Read(int64(archive.Offset)+int64(slotIndex)*pointSize, pointSize)
	if err != nil {
		return Point{}, err
	}
	return parsePoint(rb.Data), nil
}

// LoadPoints reads count points starting at slotOffset, issuing two reads
// when the run wraps past the end of the ring.
func (h *Handle) LoadPoints(archive ArchiveInfo, slotOffset, count int) ([]Point, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return nil, ErrNotOpen
	}
	return h.loadPoints(archive, slotOffset, count)
}

// loadPoints is the unlocked implementation shared by the public loaders.
func (h *Handle) loadPoints(archive ArchiveInfo, slotOffset, count int) ([]Point, error) {
	total := int(archive.PointsCount)
	if count < 0 || count > total {
		return nil, ErrPointOutOfBounds
	}
	if count == 0 {
		return nil, nil
	}

	slotOffset = ((slotOffset % total) + total) % total

	if slotOffset+count <= total {
		rb, err := h.backend.Read(int64(archive.Offset)+int64(slotOffset)*pointSize, count*pointSize)
		if err != nil {
			return nil, err
		}
		return parsePoints(rb.Data, count), nil
	}

	firstCount := total - slotOffset
	secondCount := count - firstCount

	first, err := h.backend.Read(int64(archive.Offset)+int64(slotOffset)*pointSize, firstCount*pointSize)
	if err != nil {
		return nil, err
	}
	second, err := h.backend.Read(int64(archive.Offset), secondCount*pointSize)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, count)
	points = append(points, parsePoints(first.Data, firstCount)...)
	points = append(points, parsePoints(second.Data, secondCount)...)
	return points, nil
}

// writePoint writes a single point at slotIndex within archive.
func (h *Handle) writePoint(archive ArchiveInfo, slotIndex int, p Point) error {
	buf := make([]byte, pointSize)
	dumpPoint(p, buf)
	return h.backend.Write(int64(archive.Offset)+int64(slotIndex)*pointSize, buf)
}

// loadHeader reads the metadata record and the following archive table.
func loadHeader(backend Backend) (Metadata, []ArchiveInfo, error) {
	rb, err := backend.Read(0, metadataSize)
	if err != nil {
		return Metadata{}, nil, err
	}
	meta := parseMetadata(rb.Data)

	if meta.ArchiveCount == 0 {
		return meta, nil, nil
	}

	rb, err = backend.Read(metadataSize, int(meta.ArchiveCount)*archiveSize)
	if err != nil {
		return Metadata{}, nil, err
	}
	archives := parseArchives(rb.Data, int(meta.ArchiveCount))
	return meta, archives, nil
}

// validateArchives enforces the ordering, alignment and contiguity
// invariants of spec §3.
func validateArchives(archives []ArchiveInfo) error {
	if len(archives) == 0 {
		return ErrArchive
	}

	expectedOffset := archives[0].Offset
	for i, a := range archives {
		if a.Offset != expectedOffset {
			return ErrArchiveMisaligned
		}
		expectedOffset += a.Size()

		if i == 0 {
			continue
		}
		prev := archives[i-1]
		if !(a.SecondsPerPoint > prev.SecondsPerPoint) {
			return ErrArchiveMisaligned
		}
		if a.SecondsPerPoint%prev.SecondsPerPoint != 0 {
			return ErrArchiveMisaligned
		}
	}
	return nil
}

// retentionOf returns the largest archive retention in the list.
func retentionOf(archives []ArchiveInfo) uint32 {
	var max uint32
	for _, a := range archives {
		if r := a.Retention(); r > max {
			max = r
		}
	}
	return max
}
