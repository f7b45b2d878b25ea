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

// This file is the archive engine: ring-buffer addressing anchored on a
// per-archive base timestamp, multi-archive write propagation under the
// configured aggregation policy, and retention-aware range loads. The
// engine keeps no state of its own beyond what Handle already caches — the
// base timestamp is re-read from slot 0 on every operation that needs it,
// since the file may be mutated by another process sharing the mapping.

// readSlot0 returns the point stored in archive's slot 0, which anchors
// every other slot's address. A zero timestamp means slot 0 itself has never
// been written; other slots of the archive may still hold points.
func (h *Handle) readSlot0(archive ArchiveInfo) (Point, error) {
	rb, err := h.backend.Read(int64(archive.Offset), pointSize)
	if err != nil {
		return Point{}, err
	}
	return parsePoint(rb.Data), nil
}

// slotFor returns the ring slot that timestamp t maps to within archive,
// given the archive's current base (slot 0). An archive that has never
// been written reads its base as zero, which anchors the ring at the
// epoch — the formula below applies unchanged, it is not a special case.
func (h *Handle) slotFor(archive ArchiveInfo, t uint32) (int, error) {
	base, err := h.readSlot0(archive)
	if err != nil {
		return 0, err
	}
	return ringSlot(base.Timestamp, t, archive.SecondsPerPoint, archive.PointsCount), nil
}

// ringSlot computes ((t-base)/spp) mod count, the slot index formula from
// spec §3/§4.6. t and base are assumed already floored to spp, so the
// division is exact; the modulo is corrected for negative steps (t older
// than base, e.g. a range query into the past).
func ringSlot(base, t, spp, count uint32) int {
	diff := int64(t) - int64(base)
	steps := diff / int64(spp)
	n := int64(count)
	idx := steps % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// Update writes a single observation, propagating the aggregate through
// every coarser archive that the xff threshold allows. See spec §4.6.
func (h *Handle) Update(p Point) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return ErrNotOpen
	}
	if len(h.archives) == 0 {
		return ErrArchive
	}

	finest := h.archives[0]
	ts := floorTimestamp(p.Timestamp, finest.SecondsPerPoint)

	now := h.now()
	if ts > now {
		return ErrFutureTimestamp
	}
	age := now - ts
	if age > h.meta.MaxRetention {
		return ErrRetention
	}

	targetIdx := -1
	for i, a := range h.archives {
		if a.Retention() >= age {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return ErrRetention
	}

	target := h.archives[targetIdx]
	ts = floorTimestamp(ts, target.SecondsPerPoint)

	slot, err := h.slotFor(target, ts)
	if err != nil {
		return err
	}
	if err := h.writePoint(target, slot, Point{Timestamp: ts, Value: p.Value}); err != nil {
		return err
	}

	finer := target
	for i := targetIdx + 1; i < len(h.archives); i++ {
		coarser := h.archives[i]
		more, err := h.propagate(finer, coarser, ts)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		finer = coarser
	}
	return nil
}

// propagate aggregates the window of finer points covering coarser's slot
// for timestamp, and writes it if enough of that window is known. It
// reports whether propagation should continue to the next coarser archive.
func (h *Handle) propagate(finer, coarser ArchiveInfo, timestamp uint32) (bool, error) {
	coarseTs := floorTimestamp(timestamp, coarser.SecondsPerPoint)
	expectedCount := int(coarser.SecondsPerPoint / finer.SecondsPerPoint)
	if expectedCount == 0 {
		return false, nil
	}

	startSlot, err := h.slotFor(finer, coarseTs)
	if err != nil {
		return false, err
	}

	points, err := h.loadPoints(finer, startSlot, expectedCount)
	if err != nil {
		return false, err
	}

	var known []Point
	expectedTs := coarseTs
	for _, p := range points {
		if !p.Empty() && p.Timestamp == expectedTs {
			known = append(known, p)
		}
		expectedTs += finer.SecondsPerPoint
	}

	if len(known) == 0 {
		return false, nil
	}
	if float32(len(known))/float32(expectedCount) < h.meta.XFilesFactor {
		return false, nil
	}

	value, err := aggregate(h.meta.Aggregation, known)
	if err != nil {
		return false, err
	}

	slot, err := h.slotFor(coarser, coarseTs)
	if err != nil {
		return false, err
	}
	if err := h.writePoint(coarser, slot, Point{Timestamp: coarseTs, Value: value}); err != nil {
		return false, err
	}
	return true, nil
}

// LoadTimeRange returns the points covering [tFrom, tUntil) in archive,
// clamping tFrom up to the archive's retention window. See spec §4.6.
func (h *Handle) LoadTimeRange(archive ArchiveInfo, tFrom, tUntil uint32) ([]Point, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.isOpen {
		return nil, ErrNotOpen
	}
	if !(tFrom < tUntil) {
		return nil, ErrTimeInterval
	}

	now := h.now()
	if retention := archive.Retention(); now > retention {
		if minTime := now - retention; tFrom < minTime {
			tFrom = minTime
		}
	}
	if tFrom >= tUntil {
		return nil, nil
	}

	base, err := h.readSlot0(archive)
	if err != nil {
		return nil, err
	}
	if base.Empty() {
		return nil, nil
	}

	spp := archive.SecondsPerPoint
	fromFloored := floorTimestamp(tFrom, spp)

	count := int((tUntil - fromFloored) / spp)
	if count <= 0 {
		return nil, nil
	}
	if count > int(archive.PointsCount) {
		count = int(archive.PointsCount)
	}

	slotFrom := ringSlot(base.Timestamp, fromFloored, spp, archive.PointsCount)
	return h.loadPoints(archive, slotFrom, count)
}
