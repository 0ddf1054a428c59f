// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestFromIntervals(t *testing.T) {
	in := []Interval{
		{Group: 1, Start: 5, End: 10, Idx: 42},
		{Group: 0, Start: 0, End: 3, Idx: 7},
	}
	c := FromIntervals(in)
	expect.EQ(t, c.Len(), 2)
	expect.EQ(t, c.Interval(0), in[0])
	expect.EQ(t, c.Interval(1), in[1])

	// Without Idxs the row is the idx.
	c.Idxs = nil
	expect.EQ(t, c.Interval(1), Interval{Group: 0, Start: 0, End: 3, Idx: 1})
}

func TestRangesAsInput(t *testing.T) {
	a := ivs([3]int64{0, 0, 100}, [3]int64{0, 150, 160})
	b := ivs([3]int64{0, 40, 50})
	frags, err := Subtract(a, b, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, frags.Len(), 3)

	// Fragments feed back into other operations, keeping their idxs.
	merged, err := Merge(frags.Columns(), Opts{Slack: 10})
	require.NoError(t, err)
	expect.EQ(t, merged, Merged{
		Groups: []int64{0, 0},
		Idxs:   []int64{0, 1},
		Starts: []int64{0, 150},
		Ends:   []int64{100, 160},
		Counts: []int64{2, 1},
	})
}
