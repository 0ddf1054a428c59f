// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type neighbor struct{ q, b, dist int64 }

func neighborsOf(n Neighbors) []neighbor {
	out := make([]neighbor, n.Len())
	for i := range out {
		out[i] = neighbor{n.Idx1[i], n.Idx2[i], n.Distances[i]}
	}
	return out
}

// bruteNearest classifies every pair and keeps, per query, the rows at the k
// smallest distinct distances.
func bruteNearest(a, b Columns, opts NearestOpts) []neighbor {
	left := opts.Direction != Forward
	right := opts.Direction != Backward
	w := Symmetric(opts.Slack)
	out := []neighbor{}
	for i := 0; i < a.Len(); i++ {
		qs, qe := w.apply(a.Starts[i], a.Ends[i])
		var cands []neighbor
		for j := 0; j < b.Len(); j++ {
			if a.Groups[i] != b.Groups[j] {
				continue
			}
			bs, be := b.Starts[j], b.Ends[j]
			switch {
			case overlapsHalfOpen(qs, qe, bs, be):
				if opts.IncludeOverlaps {
					cands = append(cands, neighbor{int64(i), int64(j), 0})
				}
			case left && be <= qs:
				cands = append(cands, neighbor{int64(i), int64(j), qs - be + 1})
			case right && bs >= qe:
				cands = append(cands, neighbor{int64(i), int64(j), bs - qe + 1})
			}
		}
		var dists []int64
		seen := map[int64]bool{}
		for _, c := range cands {
			if !seen[c.dist] {
				seen[c.dist] = true
				dists = append(dists, c.dist)
			}
		}
		sort.Slice(dists, func(x, y int) bool { return dists[x] < dists[y] })
		if len(dists) > opts.K {
			dists = dists[:opts.K]
		}
		if len(dists) == 0 {
			continue
		}
		for _, c := range cands {
			if c.dist <= dists[len(dists)-1] {
				out = append(out, c)
			}
		}
	}
	return out
}

func TestNearestBasic(t *testing.T) {
	a := ivs([3]int64{1, 0, 5})
	b := ivs([3]int64{1, 10, 12}, [3]int64{1, 20, 22})
	got, err := Nearest(a, b, DefaultNearestOpts)
	require.NoError(t, err)
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 0, 6}})

	opts := DefaultNearestOpts
	opts.K = 2
	got, err = Nearest(a, b, opts)
	require.NoError(t, err)
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 0, 6}, {0, 1, 16}})
}

func TestNearestTies(t *testing.T) {
	a := ivs([3]int64{0, 100, 200})
	b := ivs(
		[3]int64{0, 50, 90},   // left, 11
		[3]int64{0, 210, 220}, // right, 11
		[3]int64{0, 80, 90},   // left, 11
		[3]int64{0, 200, 205}, // bookended, 1
		[3]int64{0, 150, 160}, // overlap
	)
	opts := NearestOpts{K: 2, IncludeOverlaps: false, Direction: Any}
	got, err := Nearest(a, b, opts)
	require.NoError(t, err)
	// Left before right at equal distance.
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 3, 1}, {0, 2, 11}, {0, 0, 11}, {0, 1, 11}})

	opts.IncludeOverlaps = true
	got, err = Nearest(a, b, opts)
	require.NoError(t, err)
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 4, 0}, {0, 3, 1}})
}

func TestNearestDirection(t *testing.T) {
	a := ivs([3]int64{0, 100, 200})
	b := ivs([3]int64{0, 10, 20}, [3]int64{0, 300, 301})
	for _, tt := range []struct {
		dir  Direction
		want []neighbor
	}{
		{Any, []neighbor{{0, 0, 81}}},
		{Forward, []neighbor{{0, 1, 101}}},
		{Backward, []neighbor{{0, 0, 81}}},
	} {
		got, err := Nearest(a, b, NearestOpts{K: 1, Direction: tt.dir})
		require.NoError(t, err)
		assert.Equal(t, tt.want, neighborsOf(got), tt.dir.String())
	}
}

func TestNearestZeroK(t *testing.T) {
	a := ivs([3]int64{0, 0, 10})
	b := ivs([3]int64{0, 5, 20})
	got, err := Nearest(a, b, NearestOpts{K: 0, IncludeOverlaps: true})
	require.NoError(t, err)
	expect.EQ(t, got.Len(), 0)
}

func TestNearestSlack(t *testing.T) {
	a := ivs([3]int64{0, 100, 110})
	b := ivs([3]int64{0, 115, 120})
	got, err := Nearest(a, b, NearestOpts{K: 1, Slack: 5, IncludeOverlaps: true})
	require.NoError(t, err)
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 0, 1}})
	got, err = Nearest(a, b, NearestOpts{K: 1, Slack: 6, IncludeOverlaps: true})
	require.NoError(t, err)
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 0, 0}})
}

func TestNearestRandom(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 100; iter++ {
		a := randomColumns(r, 1+r.Intn(40), 2, 300, 25)
		b := randomColumns(r, r.Intn(40), 2, 300, 25)
		opts := NearestOpts{
			Slack:           int64(r.Intn(3)),
			K:               r.Intn(4),
			IncludeOverlaps: r.Intn(2) == 0,
			Direction:       Direction(r.Intn(3)),
		}
		got, err := Nearest(a, b, opts)
		require.NoError(t, err)
		rows := neighborsOf(got)
		assert.ElementsMatch(t, bruteNearest(a, b, opts), rows, "%+v", opts)

		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			require.True(t, prev.q < cur.q || (prev.q == cur.q && prev.dist <= cur.dist))
		}
		distinct := map[int64]map[int64]bool{}
		for _, n := range rows {
			if distinct[n.q] == nil {
				distinct[n.q] = map[int64]bool{}
			}
			distinct[n.q][n.dist] = true
		}
		for _, d := range distinct {
			expect.LE(t, len(d), opts.K)
		}
	}
}

func TestNearestCollector(t *testing.T) {
	c := newNearestCollector(2)
	for i, d := range []int64{9, 5, 9, 7, 5, 3, 7, 8} {
		c.add(candidate{q: 0, b: i, dist: d})
	}
	got := c.drain(nil)
	var bs []int
	for _, cand := range got {
		bs = append(bs, cand.b)
	}
	// Distances 3 and 5 survive; 5 arrived twice.
	expect.EQ(t, bs, []int{5, 1, 4})
	expect.EQ(t, len(c.drain(nil)), 0)
}

func BenchmarkNearest(b *testing.B) {
	r := rand.New(rand.NewSource(0))
	x := randomColumns(r, 100000, 24, 10000000, 1000)
	y := randomColumns(r, 100000, 24, 10000000, 1000)
	opts := DefaultNearestOpts
	opts.K = 3
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Nearest(x, y, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func TestNearestUnboundedK(t *testing.T) {
	a := ivs([3]int64{0, 0, 5})
	b := ivs([3]int64{0, 10, 12}, [3]int64{0, 20, 22})
	var got Neighbors
	require.NotPanics(t, func() {
		var err error
		got, err = Nearest(a, b, NearestOpts{K: math.MaxInt, Direction: Any})
		require.NoError(t, err)
	})
	expect.EQ(t, neighborsOf(got), []neighbor{{0, 0, 6}, {0, 1, 16}})
}

func TestNearestInvalidDirection(t *testing.T) {
	a := ivs([3]int64{0, 0, 5})
	_, err := Nearest(a, a, NearestOpts{K: 1, Direction: Direction(9)})
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Invalid, err))
}
