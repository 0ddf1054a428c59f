// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Complement reports the gaps between the clusters of a, per group, within
// [0, lengths[group]).  Each gap carries the idx of the interval which closed
// the cluster before it; the leading gap, reported only when
// opts.IncludeFirstInterval is set, carries the idx of the first interval of
// the group.  Groups without intervals produce nothing.  Every group of a must
// have an entry in lengths.
func Complement(a Columns, lengths map[int64]int64, opts ComplementOpts) (Ranges, error) {
	const op = "sweep.Complement"
	if err := validateSingle(op, &a, opts.Slack); err != nil {
		return Ranges{}, err
	}
	for r, g := range a.Groups {
		if _, ok := lengths[g]; !ok {
			return Ranges{}, errors.E(errors.Invalid, fmt.Sprintf("%s: row %d: group %d has no length", op, r, g))
		}
	}
	sw := newStopwatch(op, opts.Trace)
	var (
		out     Ranges
		started bool
		prev    run
	)
	closeGroup := func() {
		if length := lengths[prev.group]; prev.end < length {
			out.add(prev.group, prev.end, length, a.Idx(prev.closer))
		}
	}
	sweepRuns(&a, opts.Slack, sw, nil, func(r *run) {
		switch {
		case !started || r.group != prev.group:
			if started {
				closeGroup()
			}
			if opts.IncludeFirstInterval && r.start > 0 {
				out.add(r.group, 0, r.start, a.Idx(r.first))
			}
		case prev.end < r.start:
			out.add(r.group, prev.end, r.start, a.Idx(prev.closer))
		}
		started = true
		prev = *r
	})
	if started {
		closeGroup()
	}
	sw.mark("gaps")
	return out, nil
}

// Subtract reports the parts of every interval of a that no interval of b
// covers.  b is widened by opts.Slack on both sides.  Fragments are reported
// in (group, start, end) order of the intervals of a, ascending within each
// interval; Idxs holds the idx of the interval of a.
func Subtract(a, b Columns, opts Opts) (Ranges, error) {
	const op = "sweep.Subtract"
	if err := a.validate(op, "first collection"); err != nil {
		return Ranges{}, err
	}
	if err := b.validate(op, "second collection"); err != nil {
		return Ranges{}, err
	}
	if err := validateSlack(op, opts.Slack); err != nil {
		return Ranges{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	cover := coverage(&b, Symmetric(opts.Slack))
	rows := sortedRows(&a)
	sw.mark("build+sort")

	var out Ranges
	p := 0
	for _, r := range rows {
		g, start, end := a.Groups[r], a.Starts[r], a.Ends[r]
		// First covered range in g that reaches past start.
		p = expsearch(cover.Len(), p, func(i int) bool {
			return cover.Groups[i] > g || (cover.Groups[i] == g && cover.Ends[i] > start)
		})
		pos := start
		for i := p; i < cover.Len() && cover.Groups[i] == g && cover.Starts[i] < end; i++ {
			if pos < cover.Starts[i] {
				out.add(g, pos, cover.Starts[i], a.Idx(r))
			}
			if cover.Ends[i] > pos {
				pos = cover.Ends[i]
			}
		}
		if pos < end {
			out.add(g, pos, end, a.Idx(r))
		}
	}
	sw.mark("sweep")
	return out, nil
}

// coverage returns the union of c, widened by w, as disjoint non-touching
// ranges sorted by (group, start).
func coverage(c *Columns, w Widening) Ranges {
	var out Ranges
	for _, r := range sortedRows(c) {
		g := c.Groups[r]
		start, end := w.apply(c.Starts[r], c.Ends[r])
		if start == end {
			continue
		}
		if n := out.Len(); n > 0 && out.Groups[n-1] == g && start <= out.Ends[n-1] {
			if end > out.Ends[n-1] {
				out.Ends[n-1] = end
			}
			continue
		}
		out.add(g, start, end, c.Idx(r))
	}
	return out
}
