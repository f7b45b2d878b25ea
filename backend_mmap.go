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
	"os"

	"golang.org/x/sys/unix"
)

// mmapBackend implements Backend over a single mmap of the whole file.
// Reads hand back a borrowed view straight into the mapping; writes are
// direct memory copies. Durability is left to the mapping layer unless the
// caller calls Sync.
type mmapBackend struct {
	file *os.File
	data []byte
	dirty bool
}

func (b *mmapBackend) Open(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return newErr(KindIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return newErr(KindIO, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return newErr(KindIO, err)
	}

	b.file = f
	b.data = data
	return nil
}

func (b *mmapBackend) Close() error {
	if b.data != nil {
		if err := unix.Munmap(b.data); err != nil {
			return newErr(KindIO, err)
		}
		b.data = nil
	}
	if b.file != nil {
		if err := b.file.Close(); err != nil {
			return newErr(KindIO, err)
		}
		b.file = nil
	}
	b.dirty = false
	return nil
}

func (b *mmapBackend) Read(offset int64, size int) (ReadBuffer, error) {
	if offset < 0 || size < 0 || offset+int64(size) > int64(len(b.data)) {
		return ReadBuffer{}, newErr(KindOffset, nil)
	}
	return ReadBuffer{Data: b.data[offset : offset+int64(size)], Owned: false}, nil
}

func (b *mmapBackend) Write(offset int64, buf []byte) error {
	if offset < 0 || offset+int64(len(buf)) > int64(len(b.data)) {
		return newErr(KindOffset, nil)
	}
	copy(b.data[offset:], buf)
	b.dirty = true
	return nil
}

func (b *mmapBackend) Sync() error {
	if !b.dirty {
		return nil
	}
	if err := unix.Msync(b.data, unix.MS_SYNC); err != nil {
		return newErr(KindIO, err)
	}
	b.dirty = false
	return nil
}
