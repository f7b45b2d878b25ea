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

// ReadBuffer is the ownership-typed result of a Backend.Read. When Owned is
// true the caller holds the only reference to Data and may keep it as long
// as it likes. When Owned is false, Data aliases the backend's own storage
// (the memory mapping) and is only valid while the backend stays open —
// it must never be retained past the owning Handle's Close.
type ReadBuffer struct {
	Data  []byte
	Owned bool
}

// Backend is the capability set every I/O backend implements: open, close,
// positioned read, positioned write. It is the single abstraction that lets
// the rest of the package treat memory-mapped and streamed files
// identically.
type Backend interface {
	// Open establishes the backend's state against path.
	Open(path string) error

	// Close tears the backend down. It is idempotent.
	Close() error

	// Read returns size bytes from offset. See ReadBuffer for the
	// ownership contract of the returned value.
	Read(offset int64, size int) (ReadBuffer, error)

	// Write writes buf to offset.
	Write(offset int64, buf []byte) error

	// Sync flushes any buffered writes to stable storage, where the
	// backend has a meaningful notion of doing so.
	Sync() error
}
