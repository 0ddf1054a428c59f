// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

// expsearch performs "exponential search"
// (https://en.wikipedia.org/wiki/Exponential_search ) for the smallest i in
// [idx, n) with pred(i) true, or n if there is none.  pred must be monotone
// (false...false, true...true) on [idx, n).  It checks idx, then idx + 1,
// then idx + 3, then idx + 7, etc., and finishes with binary search once it
// has either found a true element or hit the end.  This beats plain binary
// search when successive targets are close together, which is the usual case
// when a sweep advances a pointer through a sorted stream.
func expsearch(n, idx int, pred func(i int) bool) int {
	nextIncr := 1
	startIdx := idx
	endIdx := n
	for idx < endIdx {
		if pred(idx) {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	// This is really just an inlined sort.Search call.  We spell it out since
	// startIdx is usually equal to endIdx.
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if pred(midIdx) {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// seekAfter returns the first index >= idx whose (Group, Pos) is strictly
// greater than (group, pos).
func seekAfter(events []MinEvent, idx int, group, pos int64) int {
	return expsearch(len(events), idx, func(i int) bool {
		e := &events[i]
		return e.Group > group || (e.Group == group && e.Pos > pos)
	})
}

// seekAtOrAfter returns the first index >= idx whose (Group, Pos) is at least
// (group, pos).
func seekAtOrAfter(events []MinEvent, idx int, group, pos int64) int {
	return expsearch(len(events), idx, func(i int) bool {
		e := &events[i]
		return e.Group > group || (e.Group == group && e.Pos >= pos)
	})
}
