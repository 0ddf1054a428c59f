// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

// Reducer holds the per-group state of one sweep.  The algorithms in this
// package differ only in their Reducer.
type Reducer interface {
	// OnGroup is called before the first event of every group.  All active
	// state must be discarded; groups never share state.
	OnGroup(group int64)
	// OnStart is called for every start event, in sorted order.
	OnStart(e *Event)
	// OnEnd is called for every end event, in sorted order.
	OnEnd(e *Event)
}

// Sweep feeds sorted events to r.  events must be sorted by SortEvents (or
// an equivalent order); Sweep runs to completion and cannot fail.
func Sweep(events []Event, r Reducer) {
	for i := range events {
		e := &events[i]
		if i == 0 || e.Group != events[i-1].Group {
			r.OnGroup(e.Group)
		}
		if e.IsStart {
			r.OnStart(e)
		} else {
			r.OnEnd(e)
		}
	}
}

// activeSet is a set of rows with O(1) insert and remove, backed by a dense
// slot array indexed by row number instead of a hash set.
type activeSet struct {
	members []int
	// slot[row]-1 is row's position in members; 0 means absent.
	slot []int32
}

func newActiveSet(n int) activeSet {
	return activeSet{slot: make([]int32, n)}
}

func (s *activeSet) insert(row int) {
	if s.contains(row) {
		return
	}
	s.members = append(s.members, row)
	s.slot[row] = int32(len(s.members))
}

// remove is a no-op if row is absent.
func (s *activeSet) remove(row int) {
	p := s.slot[row]
	if p == 0 {
		return
	}
	last := s.members[len(s.members)-1]
	s.members[p-1] = last
	s.slot[last] = p
	s.slot[row] = 0
	s.members = s.members[:len(s.members)-1]
}

func (s *activeSet) contains(row int) bool {
	return s.slot[row] != 0
}

func (s *activeSet) reset() {
	for _, r := range s.members {
		s.slot[r] = 0
	}
	s.members = s.members[:0]
}
