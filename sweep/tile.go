// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func validateTiling(op string, a *Columns, size int64, strands []bool, slack int64) error {
	if err := validateSingle(op, a, slack); err != nil {
		return err
	}
	if size <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: size must be positive, got %d", op, size))
	}
	return validateStrands(op, a, strands)
}

func forward(strands []bool, row int) bool {
	return strands == nil || strands[row]
}

// Tile cuts every interval of a, widened by opts.Slack, along the fixed grid
// [t, t+size) with t a multiple of size.  Each row is a grid tile touched by
// the interval, with the fraction of the tile the interval covers.  Rows of
// one interval are ascending, or descending when strands marks it as reverse
// stranded; strands may be nil.  Empty intervals produce no tiles.
func Tile(a Columns, size int64, strands []bool, opts Opts) (Tiles, error) {
	const op = "sweep.Tile"
	if err := validateTiling(op, &a, size, strands, opts.Slack); err != nil {
		return Tiles{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	var out Tiles
	w := Symmetric(opts.Slack)
	for r := 0; r < a.Len(); r++ {
		start, end := w.apply(a.Starts[r], a.Ends[r])
		if start == end {
			continue
		}
		first := floorDiv(start, size) * size
		last := floorDiv(end-1, size) * size
		emit := func(t int64) {
			lo, hi := t, t+size
			if start > lo {
				lo = start
			}
			if end < hi {
				hi = end
			}
			out.Idxs = append(out.Idxs, a.Idx(r))
			out.Starts = append(out.Starts, t)
			out.Ends = append(out.Ends, t+size)
			out.Fractions = append(out.Fractions, float64(hi-lo)/float64(size))
		}
		if forward(strands, r) {
			for t := first; t <= last; t += size {
				emit(t)
			}
		} else {
			for t := last; t >= first; t -= size {
				emit(t)
			}
		}
	}
	sw.mark("tile")
	return out, nil
}

// Window splits every interval of a, widened by opts.Slack, into consecutive
// windows of the given size starting at the interval start, or at the end
// for reverse-stranded intervals (which are then reported in descending
// order).  The last window of each interval is truncated.
func Window(a Columns, size int64, strands []bool, opts Opts) (Tiles, error) {
	const op = "sweep.Window"
	if err := validateTiling(op, &a, size, strands, opts.Slack); err != nil {
		return Tiles{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	var out Tiles
	w := Symmetric(opts.Slack)
	add := func(r int, start, end int64) {
		out.Idxs = append(out.Idxs, a.Idx(r))
		out.Starts = append(out.Starts, start)
		out.Ends = append(out.Ends, end)
	}
	for r := 0; r < a.Len(); r++ {
		start, end := w.apply(a.Starts[r], a.Ends[r])
		if forward(strands, r) {
			for s := start; s < end; {
				e := end
				if end-s > size {
					e = s + size
				}
				add(r, s, e)
				s = e
			}
		} else {
			for e := end; e > start; {
				s := start
				if e-start > size {
					s = e - size
				}
				add(r, s, e)
				e = s
			}
		}
	}
	sw.mark("window")
	return out, nil
}
