// Package chunk splits a slice into contiguous, near-equal parts for
// data-parallel processing.
package chunk

import (
	"errors"
	"fmt"
)

// ErrInvalidParts is returned when fewer than one part is requested.
var ErrInvalidParts = errors.New("number of parts must be positive")

// Chunk is a contiguous view of the input. Items shares memory with the
// slice passed to Split and must be treated as read-only.
type Chunk[T any] struct {
	Index  int // position of the chunk, 0 is leftmost
	Offset int // absolute index of Items[0] in the original slice
	Items  []T
}

// Range is the half-open index interval [Start, End) covered by one chunk.
type Range struct {
	Start, End int
}

// Len returns End - Start.
func (r Range) Len() int {
	return r.End - r.Start
}

// Bounds computes the chunk layout for n items split into parts.
//
// parts is clamped to n. With base = n/parts and rem = n%parts, chunk k holds
// base+1 items when k < rem and base items otherwise, so lengths differ by at
// most one and the longer chunks come first. An empty input yields no ranges.
func Bounds(parts, n int) ([]Range, error) {
	if parts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidParts, parts)
	}
	if n <= 0 {
		return []Range{}, nil
	}

	parts = min(parts, n)
	base, rem := n/parts, n%parts

	ranges := make([]Range, parts)
	start := 0
	for k := range ranges {
		end := start + base
		if k < rem {
			end++
		}
		ranges[k] = Range{Start: start, End: end}
		start = end
	}
	return ranges, nil
}

// Split partitions items into at most parts chunks laid out by Bounds.
func Split[T any](parts int, items []T) ([]Chunk[T], error) {
	ranges, err := Bounds(parts, len(items))
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk[T], len(ranges))
	for k, r := range ranges {
		chunks[k] = Chunk[T]{
			Index:  k,
			Offset: r.Start,
			Items:  items[r.Start:r.End:r.End],
		}
	}
	return chunks, nil
}
