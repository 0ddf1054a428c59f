// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import "sort"

// SortOrder returns the idxs of a ordered by (group, start, end).  Ties keep
// input order.
func SortOrder(a Columns) ([]int64, error) {
	if err := a.validate("sweep.SortOrder", "collection"); err != nil {
		return nil, err
	}
	return a.idxsOf(sortedRows(&a)), nil
}

// Boundaries reports one row per group of a: the span from the smallest start
// to the largest end, and the number of intervals.  Idxs holds the idx of the
// group's first interval in sort order.
func Boundaries(a Columns) (Merged, error) {
	if err := a.validate("sweep.Boundaries", "collection"); err != nil {
		return Merged{}, err
	}
	var out Merged
	for _, r := range sortedRows(&a) {
		n := out.Len()
		if n == 0 || out.Groups[n-1] != a.Groups[r] {
			out.add(a.Groups[r], a.Idx(r), a.Starts[r], a.Ends[r], 1)
			continue
		}
		if a.Ends[r] > out.Ends[n-1] {
			out.Ends[n-1] = a.Ends[r]
		}
		out.Counts[n-1]++
	}
	return out, nil
}

// splitter cuts a group at every boundary.  A segment is emitted when the
// first event at a new position arrives, using the live count left by the
// events at the previous position.
type splitter struct {
	c       *Columns
	between bool
	live    int
	open    bool
	group   int64
	pos     int64
	row     int
	out     *Ranges
}

func (s *splitter) OnGroup(g int64) {
	s.live = 0
	s.open = false
	s.group = g
}

func (s *splitter) advance(e *Event) {
	if s.open && e.Pos != s.pos && (s.live > 0 || s.between) {
		s.out.add(s.group, s.pos, e.Pos, s.c.Idx(s.row))
	}
	s.open = true
	s.pos = e.Pos
	s.row = e.Row
}

func (s *splitter) OnStart(e *Event) {
	s.advance(e)
	s.live++
}

func (s *splitter) OnEnd(e *Event) {
	s.advance(e)
	s.live--
}

// Split cuts the intervals of a at every start and end, per group, and reports
// the covered pieces in ascending order.  With opts.Between the uncovered
// pieces between the first and last boundary of each group are reported too.
// Each piece carries the idx of the interval whose boundary opened it.
func Split(a Columns, opts SplitOpts) (Ranges, error) {
	const op = "sweep.Split"
	if err := a.validate(op, "collection"); err != nil {
		return Ranges{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	events := BuildEvents(nil, &a, First, Widening{}, StartsFirst)
	SortEvents(events)
	sw.mark("build+sort")
	var out Ranges
	Sweep(events, &splitter{c: &a, between: opts.Between, out: &out})
	sw.mark("sweep")
	return out, nil
}

// MaxDisjoint greedily picks intervals of a by ascending end, keeping an
// interval when it starts at least opts.Slack past the end of the previously
// kept one in its group.  With zero slack this is a maximum set of pairwise
// non-overlapping intervals.  Idxs are returned in pick order.
func MaxDisjoint(a Columns, opts Opts) ([]int64, error) {
	const op = "sweep.MaxDisjoint"
	if err := validateSingle(op, &a, opts.Slack); err != nil {
		return nil, err
	}
	rows := make([]int, a.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		x, y := rows[i], rows[j]
		if a.Groups[x] != a.Groups[y] {
			return a.Groups[x] < a.Groups[y]
		}
		if a.Ends[x] != a.Ends[y] {
			return a.Ends[x] < a.Ends[y]
		}
		if a.Starts[x] != a.Starts[y] {
			return a.Starts[x] < a.Starts[y]
		}
		return x < y
	})
	out := []int64{}
	var (
		lastGroup int64
		lastEnd   int64
	)
	for i, r := range rows {
		if i == 0 || a.Groups[r] != lastGroup || a.Starts[r] >= addSlack(lastEnd, opts.Slack) {
			out = append(out, a.Idx(r))
			lastGroup = a.Groups[r]
			lastEnd = a.Ends[r]
		}
	}
	return out, nil
}
