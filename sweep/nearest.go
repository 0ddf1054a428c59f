// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
)

// nearestQuery holds the widened query coordinates shared by all searches.
type nearestQuery struct {
	a, b         *Columns
	starts, ends []int64
	k            int
}

// searchOverlaps reports every overlapping pair at distance 0.
func (nq *nearestQuery) searchOverlaps(sw *stopwatch) []candidate {
	var out []candidate
	joinRows(nq.a, nq.b, Symmetric(0), false, sw, func(rowA, rowB int) {
		out = append(out, candidate{q: rowA, b: rowB, dist: 0})
	})
	return out
}

// searchLeft reports, per query, the targets ending at or before the query
// start, at the k closest distinct end positions.
func (nq *nearestQuery) searchLeft() []candidate {
	targets := BuildMinEvents(make([]MinEvent, 0, nq.b.Len()), nq.b, nq.b.Ends)
	SortMinEvents(targets)
	queries := BuildMinEvents(make([]MinEvent, 0, nq.a.Len()), nq.a, nq.starts)
	SortMinEvents(queries)

	var out []candidate
	p := 0
	for _, q := range queries {
		p = seekAfter(targets, p, q.Group, q.Pos)
		distinct := 0
		for i := p - 1; i >= 0; i-- {
			t := &targets[i]
			if t.Group != q.Group {
				break
			}
			if i == p-1 || t.Pos != targets[i+1].Pos {
				if distinct == nq.k {
					break
				}
				distinct++
			}
			out = append(out, candidate{q: q.Row, b: t.Row, dist: q.Pos - t.Pos + 1})
		}
	}
	return out
}

// searchRight reports, per query, the targets starting at or after the query
// end, at the k closest distinct start positions.  When skipLeft is set,
// targets which also qualify as left neighbors (possible only for empty
// intervals) are skipped.
func (nq *nearestQuery) searchRight(skipLeft bool) []candidate {
	targets := BuildMinEvents(make([]MinEvent, 0, nq.b.Len()), nq.b, nq.b.Starts)
	SortMinEvents(targets)
	queries := BuildMinEvents(make([]MinEvent, 0, nq.a.Len()), nq.a, nq.ends)
	SortMinEvents(queries)

	var out []candidate
	p := 0
	for _, q := range queries {
		p = seekAtOrAfter(targets, p, q.Group, q.Pos)
		distinct := 0
		var lastPos int64
		qStart := nq.starts[q.Row]
		for i := p; i < len(targets); i++ {
			t := &targets[i]
			if t.Group != q.Group {
				break
			}
			if skipLeft && nq.b.Ends[t.Row] <= qStart {
				continue
			}
			if distinct == 0 || t.Pos != lastPos {
				if distinct == nq.k {
					break
				}
				distinct++
				lastPos = t.Pos
			}
			out = append(out, candidate{q: q.Row, b: t.Row, dist: t.Pos - q.Pos + 1})
		}
	}
	return out
}

// Nearest finds, for every interval of a, the intervals of b at the
// opts.K smallest distinct distances.  All intervals at a retained distance
// are reported.  Overlapping intervals have distance 0 and bookended ones
// distance 1.  The query intervals are widened by opts.Slack before
// searching.
//
// Rows are ordered by query input row, then by distance.  Among equal
// distances overlaps come first, then upstream and then downstream targets.
func Nearest(a, b Columns, opts NearestOpts) (Neighbors, error) {
	const op = "sweep.Nearest"
	if err := a.validate(op, "query collection"); err != nil {
		return Neighbors{}, err
	}
	if err := b.validate(op, "target collection"); err != nil {
		return Neighbors{}, err
	}
	if err := validateSlack(op, opts.Slack); err != nil {
		return Neighbors{}, err
	}
	if !opts.Direction.valid() {
		return Neighbors{}, errors.E(errors.Invalid, fmt.Sprintf("%s: invalid direction %v", op, opts.Direction))
	}
	if opts.K < 0 {
		return Neighbors{}, errors.E(errors.Invalid, fmt.Sprintf("%s: negative k %d", op, opts.K))
	}
	var out Neighbors
	if opts.K == 0 || a.Len() == 0 || b.Len() == 0 {
		return out, nil
	}
	sw := newStopwatch(op, opts.Trace)
	w := Symmetric(opts.Slack)
	wa := a
	wa.Starts, wa.Ends = widenColumns(&a, w)
	nq := &nearestQuery{a: &wa, b: &b, starts: wa.Starts, ends: wa.Ends, k: opts.K}

	left := opts.Direction != Forward
	right := opts.Direction != Backward
	// One branch per enabled search.  Each branch builds and sorts its own
	// event arrays; the inputs are shared read-only.
	var branches []func() []candidate
	if opts.IncludeOverlaps {
		branches = append(branches, func() []candidate { return nq.searchOverlaps(newStopwatch(op, nil)) })
	}
	if left {
		branches = append(branches, nq.searchLeft)
	}
	if right {
		branches = append(branches, func() []candidate { return nq.searchRight(left) })
	}
	results := make([][]candidate, len(branches))
	err := traverse.Each(len(branches), func(i int) error {
		results[i] = branches[i]()
		return nil
	})
	if err != nil {
		return Neighbors{}, err
	}
	sw.mark("search")

	byQuery := bucketCandidates(a.Len(), results)
	sw.mark("bucket")

	coll := newNearestCollector(opts.K)
	var kept []candidate
	for q := 0; q < a.Len(); q++ {
		for _, cand := range byQuery.forQuery(q) {
			coll.add(cand)
		}
		kept = coll.drain(kept[:0])
		for _, cand := range kept {
			out.Idx1 = append(out.Idx1, a.Idx(cand.q))
			out.Idx2 = append(out.Idx2, b.Idx(cand.b))
			out.Distances = append(out.Distances, cand.dist)
		}
	}
	sw.mark("collect")
	return out, nil
}

// candidateBuckets groups candidates by query row while keeping the order in
// which the searches produced them.
type candidateBuckets struct {
	offsets []int
	cands   []candidate
}

func (cb *candidateBuckets) forQuery(q int) []candidate {
	return cb.cands[cb.offsets[q]:cb.offsets[q+1]]
}

func bucketCandidates(nQueries int, results [][]candidate) candidateBuckets {
	cb := candidateBuckets{offsets: make([]int, nQueries+1)}
	total := 0
	for _, r := range results {
		for _, c := range r {
			cb.offsets[c.q+1]++
		}
		total += len(r)
	}
	for q := 0; q < nQueries; q++ {
		cb.offsets[q+1] += cb.offsets[q]
	}
	cb.cands = make([]candidate, total)
	next := append([]int(nil), cb.offsets[:nQueries]...)
	for _, r := range results {
		for _, c := range r {
			cb.cands[next[c.q]] = c
			next[c.q]++
		}
	}
	return cb
}
