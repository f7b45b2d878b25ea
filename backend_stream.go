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

import "os"

// streamBackend implements Backend using positioned reads/writes against an
// *os.File. Reads allocate a caller-owned buffer. The engine above this
// backend addresses archives by arbitrary ring slot, forward or backward of
// wherever the file descriptor last left off, so both Read and Write
// position the file explicitly rather than relying on the current offset.
type streamBackend struct {
	file *os.File
}

func (b *streamBackend) Open(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return newErr(KindIO, err)
	}
	b.file = f
	return nil
}

func (b *streamBackend) Close() error {
	if b.file != nil {
		if err := b.file.Close(); err != nil {
			return newErr(KindIO, err)
		}
		b.file = nil
	}
	return nil
}

func (b *streamBackend) Read(offset int64, size int) (ReadBuffer, error) {
	buf := make([]byte, size)
	if _, err := b.file.ReadAt(buf, offset); err != nil {
		return ReadBuffer{}, newErr(KindIO, err)
	}
	return ReadBuffer{Data: buf, Owned: true}, nil
}

func (b *streamBackend) Write(offset int64, buf []byte) error {
	if _, err := b.file.WriteAt(buf, offset); err != nil {
		return newErr(KindIO, err)
	}
	return nil
}

func (b *streamBackend) Sync() error {
	return nil
}
