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

// aggregate reduces a window of known (non-gap) points to a single value
// under method. The caller guarantees len(known) > 0.
func aggregate(method AggregationMethod, known []Point) (float64, error) {
	switch method {
	case AggregationAverage:
		var sum float64
		for _, p := range known {
			sum += p.Value
		}
		return sum / float64(len(known)), nil

	case AggregationSum:
		var sum float64
		for _, p := range known {
			sum += p.Value
		}
		return sum, nil

	case AggregationLast:
		last := known[0]
		for _, p := range known {
			if p.Timestamp >= last.Timestamp {
				last = p
			}
		}
		return last.Value, nil

	case AggregationMax:
		max := known[0].Value
		for _, p := range known {
			if p.Value > max {
				max = p.Value
			}
		}
		return max, nil

	case AggregationMin:
		min := known[0].Value
		for _, p := range known {
			if p.Value < min {
				min = p.Value
			}
		}
		return min, nil

	default:
		return 0, ErrUnknownAggregation
	}
}
