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

// Kind enumerates the failure modes the library can return. It mirrors the
// closed error set of the original C implementation this package is based
// on, rather than an open-ended Go error hierarchy.
type Kind int

const (
	// KindNone is the zero Kind; it is never returned from a failing call.
	KindNone Kind = iota
	KindNotInitialized
	KindAlreadyInitialized
	KindIO
	KindNotOpen
	KindAlreadyOpen
	KindAlloc
	KindOffset
	KindFutureTimestamp
	KindRetention
	KindArchive
	KindPointOOB
	KindUnknownAggregation
	KindArchiveMisaligned
	KindTimeInterval
)

var kindStrings = [...]string{
	"No error",
	"Context not initialized",
	"Context already initialized",
	"I/O error",
	"Whisper file not open",
	"Whisper file already open",
	"Allocation failure",
	"Invalid offset",
	"Future timestamp",
	"Retention error",
	"Archive error",
	"Point out of bounds",
	"Unknown aggregation",
	"Archive misaligned",
	"Time interval error",
}

// String returns the human-readable message for k, matching spec.md §6.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindStrings) {
		return "Unknown error"
	}
	return kindStrings[k]
}

// Error is the library's tagged (kind, os errno) error value. A zero-value
// *os.SyscallError, or a plain error from the standard library, can both be
// carried as the wrapped cause.
type Error struct {
	Kind  Kind
	Cause error // optional: the OS-level error that produced this Kind
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Cause.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the captured OS error so callers can use errors.Is/As
// against it, alongside inspecting Kind directly.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Sentinel errors for the lifecycle/validation kinds that carry no OS
// cause, so callers can compare with errors.Is(err, whisper.ErrNotOpen).
var (
	ErrNotOpen             = newErr(KindNotOpen, nil)
	ErrAlreadyOpen         = newErr(KindAlreadyOpen, nil)
	ErrFutureTimestamp     = newErr(KindFutureTimestamp, nil)
	ErrRetention           = newErr(KindRetention, nil)
	ErrArchive             = newErr(KindArchive, nil)
	ErrPointOutOfBounds    = newErr(KindPointOOB, nil)
	ErrUnknownAggregation  = newErr(KindUnknownAggregation, nil)
	ErrArchiveMisaligned   = newErr(KindArchiveMisaligned, nil)
	ErrTimeInterval        = newErr(KindTimeInterval, nil)
)

// Is lets errors.Is match against the sentinel values above by Kind alone,
// ignoring any attached Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
