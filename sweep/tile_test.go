// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorDiv(t *testing.T) {
	for _, tt := range []struct{ x, y, want int64 }{
		{7, 2, 3}, {-7, 2, -4}, {-8, 2, -4}, {0, 5, 0}, {-1, 10, -1}, {10, 10, 1},
	} {
		expect.EQ(t, floorDiv(tt.x, tt.y), tt.want)
	}
}

func TestTile(t *testing.T) {
	a := ivs([3]int64{0, 5, 23}, [3]int64{0, 5, 23}, [3]int64{0, -5, 5}, [3]int64{0, 7, 7})
	got, err := Tile(a, 10, []bool{true, false, true, true}, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, got.Idxs, []int64{0, 0, 0, 1, 1, 1, 2, 2})
	expect.EQ(t, got.Starts, []int64{0, 10, 20, 20, 10, 0, -10, 0})
	expect.EQ(t, got.Ends, []int64{10, 20, 30, 30, 20, 10, 0, 10})
	want := []float64{0.5, 1, 0.3, 0.3, 1, 0.5, 0.5, 0.5}
	require.Equal(t, len(want), len(got.Fractions))
	for i := range want {
		assert.InDelta(t, want[i], got.Fractions[i], 1e-9)
	}

	// Exactly aligned intervals touch one tile per size.
	got, err = Tile(ivs([3]int64{0, 10, 30}), 10, nil, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, got.Starts, []int64{10, 20})
}

func TestWindow(t *testing.T) {
	a := ivs([3]int64{0, 5, 23}, [3]int64{0, 5, 23}, [3]int64{0, 0, 10}, [3]int64{0, 3, 3})
	got, err := Window(a, 10, []bool{true, false, true, true}, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, got.Idxs, []int64{0, 0, 1, 1, 2})
	expect.EQ(t, got.Starts, []int64{5, 15, 13, 5, 0})
	expect.EQ(t, got.Ends, []int64{15, 23, 23, 13, 10})
	expect.EQ(t, len(got.Fractions), 0)
}

func TestTileValidation(t *testing.T) {
	a := ivs([3]int64{0, 0, 10})
	_, err := Tile(a, 0, nil, DefaultOpts)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = Window(a, -3, nil, DefaultOpts)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = Window(a, 3, []bool{true, false}, DefaultOpts)
	expect.True(t, errors.Is(errors.Invalid, err))
}
