// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"math/rand"
	"sort"
)

// ivs builds Columns from (group, start, end) triples; idx is the row.
func ivs(rows ...[3]int64) Columns {
	var c Columns
	for _, r := range rows {
		c.Groups = append(c.Groups, r[0])
		c.Starts = append(c.Starts, r[1])
		c.Ends = append(c.Ends, r[2])
	}
	return c
}

// randomColumns returns n intervals on nGroups groups with starts in
// [0, span) and lengths in [0, maxLen].  Roughly one interval in ten is
// empty.
func randomColumns(r *rand.Rand, n, nGroups int, span, maxLen int64) Columns {
	var c Columns
	for i := 0; i < n; i++ {
		start := r.Int63n(span)
		length := r.Int63n(maxLen + 1)
		if r.Intn(10) == 0 {
			length = 0
		}
		c.Groups = append(c.Groups, int64(r.Intn(nGroups)))
		c.Starts = append(c.Starts, start)
		c.Ends = append(c.Ends, start+length)
	}
	return c
}

type pair struct{ a, b int64 }

func pairsOf(p Pairs) []pair {
	out := make([]pair, p.Len())
	for i := range out {
		out[i] = pair{p.Idx1[i], p.Idx2[i]}
	}
	return out
}

func overlapsHalfOpen(as, ae, bs, be int64) bool {
	return as < be && bs < ae
}

// bruteOverlaps compares every pair of rows.
func bruteOverlaps(a, b Columns, slack int64, contained bool) []pair {
	out := []pair{}
	w := Symmetric(slack)
	for i := 0; i < a.Len(); i++ {
		as, ae := w.apply(a.Starts[i], a.Ends[i])
		for j := 0; j < b.Len(); j++ {
			if a.Groups[i] != b.Groups[j] {
				continue
			}
			bs, be := b.Starts[j], b.Ends[j]
			if !overlapsHalfOpen(as, ae, bs, be) {
				continue
			}
			if contained && !(bs <= as && ae <= be) && !(as <= bs && be <= ae) {
				continue
			}
			out = append(out, pair{a.Idx(i), b.Idx(j)})
		}
	}
	return out
}

// components labels the rows of a with connected-component ids, where two
// rows are connected if [start, end+slack] intersect as closed intervals.
// Labels are the smallest row in each component.
func components(a Columns, slack int64) []int {
	parent := make([]int, a.Len())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := 0; i < a.Len(); i++ {
		for j := i + 1; j < a.Len(); j++ {
			if a.Groups[i] != a.Groups[j] {
				continue
			}
			if a.Starts[j] <= addSlack(a.Ends[i], slack) && a.Starts[i] <= addSlack(a.Ends[j], slack) {
				ri, rj := find(i), find(j)
				if ri < rj {
					parent[rj] = ri
				} else {
					parent[ri] = rj
				}
			}
		}
	}
	out := make([]int, a.Len())
	for i := range out {
		out[i] = find(i)
	}
	return out
}

type span struct{ group, start, end int64 }

func spansOf(groups, starts, ends []int64) []span {
	out := make([]span, len(starts))
	for i := range out {
		out[i] = span{groups[i], starts[i], ends[i]}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].group != out[j].group {
			return out[i].group < out[j].group
		}
		if out[i].start != out[j].start {
			return out[i].start < out[j].start
		}
		return out[i].end < out[j].end
	})
	return out
}
