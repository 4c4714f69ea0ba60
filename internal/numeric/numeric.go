// Package numeric holds small numeric helpers.
package numeric

// Map re-maps n from the range [start1, stop1] to [start2, stop2].
//
// The position of n within the source range is clamped to [0, 1] first, so
// the result always lies between start2 and stop2. With a zero-width source
// range, n above start1 maps to stop2 and anything else to start2.
func Map(n, start1, stop1, start2, stop2 float64) float64 {
	span := stop1 - start1
	if span == 0 {
		if n > start1 {
			return stop2
		}
		return start2
	}
	prog := min(1, max(0, (n-start1)/span))
	return prog*(stop2-start2) + start2
}
