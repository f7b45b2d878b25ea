package whisper

import (
	"os"
	"path/filepath"
	"testing"
)

// buildFile writes a well-formed whisper file to a temp directory and
// returns its path. archives must already be sorted finest-first with
// contiguous offsets; buildFile does not validate them.
func buildFile(t *testing.T, meta Metadata, archives []ArchiveInfo) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.wsp")

	var body []byte

	header := make([]byte, metadataSize)
	dumpMetadata(meta, header)
	body = append(body, header...)

	archiveTable := make([]byte, len(archives)*archiveSize)
	dumpArchives(archives, archiveTable)
	body = append(body, archiveTable...)

	for _, a := range archives {
		body = append(body, make([]byte, a.Size())...)
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

// archiveList builds contiguous ArchiveInfo descriptors from (spp, count)
// pairs, finest first, with offsets computed automatically.
func archiveList(pairs ...[2]uint32) []ArchiveInfo {
	offset := uint32(metadataSize) + uint32(len(pairs))*archiveSize
	archives := make([]ArchiveInfo, len(pairs))
	for i, pair := range pairs {
		archives[i] = ArchiveInfo{Offset: offset, SecondsPerPoint: pair[0], PointsCount: pair[1]}
		offset += pair[1] * pointSize
	}
	return archives
}

// writeRawPoint pokes a point directly into the backing file at an
// archive's slot, bypassing the engine — used to pre-populate fixtures.
func writeRawPoint(t *testing.T, path string, archive ArchiveInfo, slot int, p Point) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open for fixture write: %v", err)
	}
	defer f.Close()

	buf := make([]byte, pointSize)
	dumpPoint(p, buf)
	if _, err := f.WriteAt(buf, int64(archive.Offset)+int64(slot)*pointSize); err != nil {
		t.Fatalf("write fixture point: %v", err)
	}
}
