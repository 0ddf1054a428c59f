// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeBasic(t *testing.T) {
	a := ivs([3]int64{1, 10, 20}, [3]int64{1, 15, 25})
	m, err := Merge(a, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, m, Merged{
		Groups: []int64{1},
		Idxs:   []int64{1},
		Starts: []int64{10},
		Ends:   []int64{25},
		Counts: []int64{2},
	})

	c, err := Cluster(a, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, c.IDs, []int64{0, 0})
	expect.EQ(t, c.Idxs, []int64{0, 1})
}

func TestMergeSlack(t *testing.T) {
	a := ivs([3]int64{0, 0, 10}, [3]int64{0, 15, 20})
	for _, tt := range []struct {
		slack int64
		runs  int
	}{{0, 2}, {4, 2}, {5, 1}, {100, 1}} {
		m, err := Merge(a, Opts{Slack: tt.slack})
		require.NoError(t, err)
		assert.Equalf(t, tt.runs, m.Len(), "slack %d", tt.slack)
	}
	// Reported ends are not widened.
	m, err := Merge(a, Opts{Slack: 5})
	require.NoError(t, err)
	expect.EQ(t, m.Starts, []int64{0})
	expect.EQ(t, m.Ends, []int64{20})
}

func TestMergeBookended(t *testing.T) {
	a := ivs([3]int64{0, 0, 10}, [3]int64{0, 10, 20}, [3]int64{0, 21, 22})
	m, err := Merge(a, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, m.Starts, []int64{0, 21})
	expect.EQ(t, m.Ends, []int64{20, 22})
	expect.EQ(t, m.Counts, []int64{2, 1})
	expect.EQ(t, m.Idxs, []int64{1, 2})
}

func TestClusterAcrossGroups(t *testing.T) {
	a := ivs(
		[3]int64{1, 0, 5},
		[3]int64{0, 100, 200},
		[3]int64{0, 0, 10},
		[3]int64{0, 5, 20},
	)
	c, err := Cluster(a, DefaultOpts)
	require.NoError(t, err)
	// Sweep order: group 0 by start, then group 1.
	expect.EQ(t, c.Idxs, []int64{2, 3, 1, 0})
	expect.EQ(t, c.IDs, []int64{0, 0, 1, 2})
}

func TestClusterRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		a := randomColumns(r, 1+r.Intn(80), 3, 300, 20)
		slack := int64(r.Intn(5))
		c, err := Cluster(a, Opts{Slack: slack})
		require.NoError(t, err)
		require.Equal(t, a.Len(), c.Len())

		comp := components(a, slack)
		idOf := map[int64]int64{}
		for i, idx := range c.Idxs {
			_, dup := idOf[idx]
			require.False(t, dup, "row reported twice")
			idOf[idx] = c.IDs[i]
		}
		for i := 0; i < a.Len(); i++ {
			for j := i + 1; j < a.Len(); j++ {
				assert.Equal(t, comp[i] == comp[j], idOf[int64(i)] == idOf[int64(j)])
			}
		}

		m, err := Merge(a, Opts{Slack: slack})
		require.NoError(t, err)
		want := map[int]*span{}
		counts := map[int]int64{}
		for i := 0; i < a.Len(); i++ {
			s, ok := want[comp[i]]
			if !ok {
				want[comp[i]] = &span{a.Groups[i], a.Starts[i], a.Ends[i]}
				counts[comp[i]] = 1
				continue
			}
			counts[comp[i]]++
			if a.Starts[i] < s.start {
				s.start = a.Starts[i]
			}
			if a.Ends[i] > s.end {
				s.end = a.Ends[i]
			}
		}
		var wantSpans []span
		var wantCount int64
		for k, s := range want {
			wantSpans = append(wantSpans, *s)
			wantCount += counts[k]
		}
		assert.ElementsMatch(t, wantSpans, spansOf(m.Groups, m.Starts, m.Ends))
		var total int64
		for _, n := range m.Counts {
			total += n
		}
		expect.EQ(t, total, wantCount)

		// Merging is idempotent.
		again, err := Merge(Columns{Groups: m.Groups, Starts: m.Starts, Ends: m.Ends}, Opts{Slack: slack})
		require.NoError(t, err)
		expect.EQ(t, again.Starts, m.Starts)
		expect.EQ(t, again.Ends, m.Ends)
		expect.EQ(t, again.Groups, m.Groups)
	}
}

func TestMergeEmpty(t *testing.T) {
	m, err := Merge(Columns{}, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, m.Len(), 0)
	c, err := Cluster(Columns{}, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, c.Len(), 0)
}
