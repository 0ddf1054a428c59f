// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import "sort"

// candidate is a (query row, target row, distance) triple produced by one of
// the nearest-neighbor searches.
type candidate struct {
	q, b int
	dist int64
}

// distanceHeap is a max-heap of distinct distances.  Storage is by value and
// the sift operations are inlined, since the heap is rebuilt for every query.
type distanceHeap []int64

func (h distanceHeap) top() int64 { return h[0] }

func (h distanceHeap) contains(d int64) bool {
	for _, v := range h {
		if v == d {
			return true
		}
	}
	return false
}

func (h *distanceHeap) push(d int64) {
	*h = append(*h, d)
	s := *h
	for i := len(s) - 1; i > 0; {
		p := (i - 1) / 2
		if s[i] <= s[p] {
			break
		}
		s[i], s[p] = s[p], s[i]
		i = p
	}
}

// replaceTop overwrites the maximum with d and restores the heap order.
func (h distanceHeap) replaceTop(d int64) {
	h[0] = d
	n := len(h)
	for i := 0; ; {
		l := 2*i + 1
		if l >= n {
			return
		}
		big := l
		if r := l + 1; r < n && h[r] > h[l] {
			big = r
		}
		if h[i] >= h[big] {
			return
		}
		h[i], h[big] = h[big], h[i]
		i = big
	}
}

// nearestCollector keeps, for one query, every candidate whose distance is
// among the k smallest distinct distances seen.  Ties are never truncated.
type nearestCollector struct {
	k     int
	heap  distanceHeap
	items []candidate
}

// initialHeapCap bounds the up-front allocation; k itself may be huge.
const initialHeapCap = 16

func newNearestCollector(k int) *nearestCollector {
	n := k
	if n > initialHeapCap {
		n = initialHeapCap
	}
	return &nearestCollector{k: k, heap: make(distanceHeap, 0, n)}
}

func (c *nearestCollector) reset() {
	c.heap = c.heap[:0]
	c.items = c.items[:0]
}

func (c *nearestCollector) add(cand candidate) {
	if c.k <= 0 {
		return
	}
	d := cand.dist
	switch {
	case len(c.heap) < c.k:
		if !c.heap.contains(d) {
			c.heap.push(d)
		}
	case d > c.heap.top():
		return
	case d < c.heap.top() && !c.heap.contains(d):
		c.heap.replaceTop(d)
	}
	c.items = append(c.items, cand)
}

// drain appends the retained candidates to dst in ascending distance order,
// keeping insertion order among equal distances, and resets c.
func (c *nearestCollector) drain(dst []candidate) []candidate {
	if len(c.heap) == 0 {
		return dst
	}
	limit := c.heap.top()
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].dist < c.items[j].dist })
	for _, cand := range c.items {
		if cand.dist > limit {
			break
		}
		dst = append(dst, cand)
	}
	c.reset()
	return dst
}
