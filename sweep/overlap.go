// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// overlapJoin is the two-collection reducer.  It keeps one active set per
// side; a start event pairs the new interval with everything active on the
// other side.
type overlapJoin struct {
	// Coordinates as swept, i.e. after widening.
	starts, ends [2][]int64
	active       [2]activeSet
	contained    bool
	// nStarts counts start events so far; startRank, if non-nil, records it
	// per row of the second collection.
	nStarts   int
	startRank []int
	visit     func(rowA, rowB int)
}

func newOverlapJoin(a, b *Columns, wa Widening, contained bool, visit func(rowA, rowB int)) *overlapJoin {
	j := &overlapJoin{
		contained: contained,
		visit:     visit,
	}
	j.starts[First], j.ends[First] = widenColumns(a, wa)
	j.starts[Second], j.ends[Second] = b.Starts, b.Ends
	j.active[First] = newActiveSet(a.Len())
	j.active[Second] = newActiveSet(b.Len())
	return j
}

func (j *overlapJoin) OnGroup(int64) {
	j.active[First].reset()
	j.active[Second].reset()
}

func (j *overlapJoin) OnStart(e *Event) {
	if j.startRank != nil && e.Side == Second {
		j.startRank[e.Row] = j.nStarts
	}
	j.nStarts++
	other := &j.active[1-e.Side]
	for _, r := range other.members {
		if e.Side == First {
			j.pair(e.Row, r)
		} else {
			j.pair(r, e.Row)
		}
	}
	// Empty intervals overlap what is open around them but nothing that
	// starts at their position; their end event has already been seen.
	if !e.Empty() {
		j.active[e.Side].insert(e.Row)
	}
}

func (j *overlapJoin) OnEnd(e *Event) {
	j.active[e.Side].remove(e.Row)
}

func (j *overlapJoin) pair(rowA, rowB int) {
	if j.contained {
		as, ae := j.starts[First][rowA], j.ends[First][rowA]
		bs, be := j.starts[Second][rowB], j.ends[Second][rowB]
		if !(bs <= as && ae <= be) && !(as <= bs && be <= ae) {
			return
		}
	}
	j.visit(rowA, rowB)
}

// joinRows sweeps a against b and calls visit for every overlapping pair of
// rows.  Only a is widened.
func joinRows(a, b *Columns, wa Widening, contained bool, sw *stopwatch, visit func(rowA, rowB int)) *overlapJoin {
	events := BuildEventPairs(a, b, wa, EndsFirst)
	sw.mark("build+sort")
	j := newOverlapJoin(a, b, wa, contained, visit)
	return sweepJoin(events, j, sw)
}

func sweepJoin(events []Event, j *overlapJoin, sw *stopwatch) *overlapJoin {
	Sweep(events, j)
	sw.mark("sweep")
	return j
}

// Overlaps returns the pairs (i, j) such that a[i], widened by opts.Slack on
// both sides, overlaps b[j] within the same group.  With OverlapAll the pair
// order is unspecified; callers should treat the result as a set.  With
// OverlapFirst and OverlapLast there is one row per query interval that has
// any partner, in input order of a.
func Overlaps(a, b Columns, opts OverlapOpts) (Pairs, error) {
	const op = "sweep.Overlaps"
	if err := a.validate(op, "first collection"); err != nil {
		return Pairs{}, err
	}
	if err := b.validate(op, "second collection"); err != nil {
		return Pairs{}, err
	}
	if err := validateSlack(op, opts.Slack); err != nil {
		return Pairs{}, err
	}
	if !opts.Type.valid() {
		return Pairs{}, errors.E(errors.Invalid, fmt.Sprintf("%s: invalid overlap type %v", op, opts.Type))
	}
	sw := newStopwatch(op, opts.Trace)
	var pairs Pairs
	if a.Len() == 0 || b.Len() == 0 {
		return pairs, nil
	}
	if opts.Type == OverlapAll {
		joinRows(&a, &b, Symmetric(opts.Slack), opts.Contained, sw, func(rowA, rowB int) {
			pairs.Idx1 = append(pairs.Idx1, a.Idx(rowA))
			pairs.Idx2 = append(pairs.Idx2, b.Idx(rowB))
		})
		return pairs, nil
	}

	// One partner per query: keep the best start rank seen for each row of a.
	best := make([]int, a.Len())
	bestRank := make([]int, a.Len())
	for i := range best {
		best[i] = -1
	}
	events := BuildEventPairs(&a, &b, Symmetric(opts.Slack), EndsFirst)
	sw.mark("build+sort")
	var j *overlapJoin
	j = newOverlapJoin(&a, &b, Symmetric(opts.Slack), opts.Contained, func(rowA, rowB int) {
		rank := j.startRank[rowB]
		switch {
		case best[rowA] < 0,
			opts.Type == OverlapFirst && rank < bestRank[rowA],
			opts.Type == OverlapLast && rank > bestRank[rowA]:
			best[rowA] = rowB
			bestRank[rowA] = rank
		}
	})
	j.startRank = make([]int, b.Len())
	sweepJoin(events, j, sw)
	for rowA, rowB := range best {
		if rowB >= 0 {
			pairs.Idx1 = append(pairs.Idx1, a.Idx(rowA))
			pairs.Idx2 = append(pairs.Idx2, b.Idx(rowB))
		}
	}
	sw.mark("select")
	return pairs, nil
}

// NonOverlapping returns, in input order, the idxs of the rows of a which
// overlap nothing in b after a is widened by opts.Slack.
func NonOverlapping(a, b Columns, opts Opts) ([]int64, error) {
	const op = "sweep.NonOverlapping"
	if err := a.validate(op, "first collection"); err != nil {
		return nil, err
	}
	if err := b.validate(op, "second collection"); err != nil {
		return nil, err
	}
	if err := validateSlack(op, opts.Slack); err != nil {
		return nil, err
	}
	sw := newStopwatch(op, opts.Trace)
	hit := make([]bool, a.Len())
	if b.Len() > 0 && a.Len() > 0 {
		joinRows(&a, &b, Symmetric(opts.Slack), false, sw, func(rowA, _ int) {
			hit[rowA] = true
		})
	}
	out := []int64{}
	for r, h := range hit {
		if !h {
			out = append(out, a.Idx(r))
		}
	}
	return out, nil
}
