// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"math"
	"sort"
)

const maxPos = math.MaxInt64

// Side identifies which input collection an event came from.
type Side uint8

const (
	// First is the query (left-hand) collection.
	First Side = iota
	// Second is the target (right-hand) collection.
	Second
)

// TieOrder decides which of a start and an end event at the same position is
// processed first.
type TieOrder uint8

const (
	// EndsFirst treats intervals as half-open: [a, x) and [x, b) do not
	// overlap.  Starts of empty intervals are processed after all ends but
	// before the starts of non-empty intervals.
	EndsFirst TieOrder = iota
	// StartsFirst makes bookended intervals touch, which is what clustering
	// and merging need.
	StartsFirst
)

// Widening is applied to every interval before its events are built: Start
// is subtracted from the start coordinate, End added to the end coordinate.
type Widening struct {
	Start int64
	End   int64
}

// Symmetric widens both boundaries by slack.
func Symmetric(slack int64) Widening {
	return Widening{Start: slack, End: slack}
}

// apply returns the widened interval.  The start is clamped at 0 (unless it
// was negative to begin with) and the end saturates at MaxInt64.
func (w Widening) apply(start, end int64) (int64, int64) {
	return subSlack(start, w.Start), addSlack(end, w.End)
}

func subSlack(pos, slack int64) int64 {
	if slack == 0 || pos < 0 {
		return pos
	}
	if pos < slack {
		return 0
	}
	return pos - slack
}

func addSlack(pos, slack int64) int64 {
	if pos > maxPos-slack {
		return maxPos
	}
	return pos + slack
}

// widenColumns returns widened copies of c's coordinates.  When w is zero the
// original arrays are returned.
func widenColumns(c *Columns, w Widening) (starts, ends []int64) {
	if w.Start == 0 && w.End == 0 {
		return c.Starts, c.Ends
	}
	starts = make([]int64, c.Len())
	ends = make([]int64, c.Len())
	for r := range starts {
		starts[r], ends[r] = w.apply(c.Starts[r], c.Ends[r])
	}
	return
}

// Event is one boundary of an interval.  Row is the interval's position in its
// collection and Idx the caller's identifier for it.
type Event struct {
	Group   int64
	Pos     int64
	IsStart bool
	Side    Side
	// tie orders events at equal (Group, Pos); see TieOrder.
	tie uint8
	Row int
	Idx int64
}

// Empty reports whether e is the start of a zero-length interval built under
// EndsFirst ordering.
func (e *Event) Empty() bool {
	return e.tie == 1 && e.IsStart
}

func tieKey(isStart, empty bool, order TieOrder) uint8 {
	if order == StartsFirst {
		if isStart {
			return 0
		}
		return 1
	}
	switch {
	case !isStart:
		return 0
	case empty:
		return 1
	}
	return 2
}

// BuildEvents appends two events per row of c to dst, after applying w, and
// returns the extended slice.  The result is not sorted.
func BuildEvents(dst []Event, c *Columns, side Side, w Widening, order TieOrder) []Event {
	if cap(dst)-len(dst) < 2*c.Len() {
		grown := make([]Event, len(dst), len(dst)+2*c.Len())
		copy(grown, dst)
		dst = grown
	}
	for r := 0; r < c.Len(); r++ {
		start, end := w.apply(c.Starts[r], c.Ends[r])
		empty := start == end
		idx := c.Idx(r)
		dst = append(dst,
			Event{Group: c.Groups[r], Pos: start, IsStart: true, Side: side, tie: tieKey(true, empty, order), Row: r, Idx: idx},
			Event{Group: c.Groups[r], Pos: end, IsStart: false, Side: side, tie: tieKey(false, empty, order), Row: r, Idx: idx})
	}
	return dst
}

// BuildEventPairs builds and sorts the events of two collections, widening
// only the first.
func BuildEventPairs(a, b *Columns, wa Widening, order TieOrder) []Event {
	events := make([]Event, 0, 2*(a.Len()+b.Len()))
	events = BuildEvents(events, a, First, wa, order)
	events = BuildEvents(events, b, Second, Widening{}, order)
	SortEvents(events)
	return events
}

type eventsByKey []Event

func (s eventsByKey) Len() int      { return len(s) }
func (s eventsByKey) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s eventsByKey) Less(i, j int) bool {
	a, b := &s[i], &s[j]
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	if a.Pos != b.Pos {
		return a.Pos < b.Pos
	}
	if a.tie != b.tie {
		return a.tie < b.tie
	}
	// The remaining keys reproduce construction order, so the result is the
	// same as a stable sort on (Group, Pos, tie).
	if a.Side != b.Side {
		return a.Side < b.Side
	}
	return a.Row < b.Row
}

// SortEvents sorts events by (group, position, tie-break).  The comparison is
// a total order over events built by BuildEvents, so the result is identical
// to a stable sort of the construction order.
func SortEvents(events []Event) {
	sort.Sort(eventsByKey(events))
}

// MinEvent is a single boundary without start/end bookkeeping, used when
// starts and ends are searched as separate sorted streams.
type MinEvent struct {
	Group int64
	Pos   int64
	Row   int
	Idx   int64
}

// BuildMinEvents appends one event per row of c to dst, taking the position
// from pos (which must be parallel to c), and returns the extended slice.
func BuildMinEvents(dst []MinEvent, c *Columns, pos []int64) []MinEvent {
	for r := 0; r < c.Len(); r++ {
		dst = append(dst, MinEvent{Group: c.Groups[r], Pos: pos[r], Row: r, Idx: c.Idx(r)})
	}
	return dst
}

type minEventsByKey []MinEvent

func (s minEventsByKey) Len() int      { return len(s) }
func (s minEventsByKey) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s minEventsByKey) Less(i, j int) bool {
	a, b := &s[i], &s[j]
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	if a.Pos != b.Pos {
		return a.Pos < b.Pos
	}
	return a.Row < b.Row
}

// SortMinEvents sorts events by (group, position, row).
func SortMinEvents(events []MinEvent) {
	sort.Sort(minEventsByKey(events))
}

// sortedRows returns the rows of c ordered by (group, start, end, row).
func sortedRows(c *Columns) []int {
	rows := make([]int, c.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c.Groups[a] != c.Groups[b] {
			return c.Groups[a] < c.Groups[b]
		}
		if c.Starts[a] != c.Starts[b] {
			return c.Starts[a] < c.Starts[b]
		}
		if c.Ends[a] != c.Ends[b] {
			return c.Ends[a] < c.Ends[b]
		}
		return a < b
	})
	return rows
}
