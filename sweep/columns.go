// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// Interval is a single row of a Columns collection.
type Interval struct {
	Group int64
	Start int64
	End   int64
	Idx   int64
}

// Columns is a collection of intervals stored as parallel arrays.  Row r is
// [Starts[r], Ends[r]) on partition Groups[r].  Idxs is optional; when nil,
// the row number doubles as the idx.
//
// The arrays are never modified by this package.
type Columns struct {
	Groups []int64
	Starts []int64
	Ends   []int64
	Idxs   []int64
}

// FromIntervals converts a slice of Intervals to Columns.
func FromIntervals(ivs []Interval) Columns {
	c := Columns{
		Groups: make([]int64, len(ivs)),
		Starts: make([]int64, len(ivs)),
		Ends:   make([]int64, len(ivs)),
		Idxs:   make([]int64, len(ivs)),
	}
	for i, iv := range ivs {
		c.Groups[i] = iv.Group
		c.Starts[i] = iv.Start
		c.Ends[i] = iv.End
		c.Idxs[i] = iv.Idx
	}
	return c
}

// Len returns the number of rows.
func (c *Columns) Len() int {
	return len(c.Groups)
}

// Idx returns the caller-visible identifier of the given row.
func (c *Columns) Idx(row int) int64 {
	if c.Idxs == nil {
		return int64(row)
	}
	return c.Idxs[row]
}

// Interval returns the given row.
func (c *Columns) Interval(row int) Interval {
	return Interval{
		Group: c.Groups[row],
		Start: c.Starts[row],
		End:   c.Ends[row],
		Idx:   c.Idx(row),
	}
}

// idxsOf maps rows to caller idx values.
func (c *Columns) idxsOf(rows []int) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = c.Idx(r)
	}
	return out
}

func (c *Columns) validate(op, name string) error {
	n := len(c.Groups)
	if len(c.Starts) != n || len(c.Ends) != n {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: %s has mismatched column lengths (groups %d, starts %d, ends %d)",
			op, name, n, len(c.Starts), len(c.Ends)))
	}
	if c.Idxs != nil && len(c.Idxs) != n {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: %s has %d idxs for %d rows", op, name, len(c.Idxs), n))
	}
	if n > math.MaxInt32 {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: %s has too many rows (%d)", op, name, n))
	}
	for r := 0; r < n; r++ {
		if c.Starts[r] > c.Ends[r] {
			return errors.E(errors.Invalid, fmt.Sprintf("%s: %s row %d has start %d > end %d",
				op, name, r, c.Starts[r], c.Ends[r]))
		}
	}
	return nil
}

func validateSlack(op string, slack int64) error {
	if slack < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: negative slack %d", op, slack))
	}
	return nil
}

func validateStrands(op string, c *Columns, strands []bool) error {
	if strands != nil && len(strands) != c.Len() {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: %d strand flags for %d rows", op, len(strands), c.Len()))
	}
	return nil
}

// Pairs is the result of an overlap join.  Row i pairs Idx1[i] from the first
// collection with Idx2[i] from the second.
type Pairs struct {
	Idx1 []int64
	Idx2 []int64
}

// Len returns the number of pairs.
func (p *Pairs) Len() int { return len(p.Idx1) }

// Clusters assigns a cluster id to every input interval.  Rows are in sweep
// order.
type Clusters struct {
	IDs  []int64
	Idxs []int64
}

// Len returns the number of rows.
func (c *Clusters) Len() int { return len(c.IDs) }

// Merged describes runs of touching intervals.  Idxs holds the idx of the
// interval whose end closed the run, Counts the number of member intervals.
type Merged struct {
	Groups []int64
	Idxs   []int64
	Starts []int64
	Ends   []int64
	Counts []int64
}

// Len returns the number of runs.
func (m *Merged) Len() int { return len(m.Starts) }

func (m *Merged) add(group, idx, start, end, count int64) {
	m.Groups = append(m.Groups, group)
	m.Idxs = append(m.Idxs, idx)
	m.Starts = append(m.Starts, start)
	m.Ends = append(m.Ends, end)
	m.Counts = append(m.Counts, count)
}

// Ranges is a list of intervals derived from input rows; Idxs identifies the
// originating row of each.
type Ranges struct {
	Groups []int64
	Starts []int64
	Ends   []int64
	Idxs   []int64
}

// Len returns the number of ranges.
func (r *Ranges) Len() int { return len(r.Starts) }

func (r *Ranges) add(group, start, end, idx int64) {
	r.Groups = append(r.Groups, group)
	r.Starts = append(r.Starts, start)
	r.Ends = append(r.Ends, end)
	r.Idxs = append(r.Idxs, idx)
}

// Columns views the ranges as a Columns collection, so results can be fed
// back into other operations.
func (r *Ranges) Columns() Columns {
	return Columns{Groups: r.Groups, Starts: r.Starts, Ends: r.Ends, Idxs: r.Idxs}
}

// Neighbors is the result of a k-nearest query.  Distances are 0 for
// overlapping pairs and 1 for bookended ones.
type Neighbors struct {
	Idx1      []int64
	Idx2      []int64
	Distances []int64
}

// Len returns the number of rows.
func (n *Neighbors) Len() int { return len(n.Idx1) }

// Tiles is the result of Tile and Window.  Fractions is only populated by
// Tile.
type Tiles struct {
	Idxs      []int64
	Starts    []int64
	Ends      []int64
	Fractions []float64
}

// Len returns the number of rows.
func (t *Tiles) Len() int { return len(t.Starts) }
