// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

// run is a maximal set of touching intervals in one group.
type run struct {
	group int64
	// start is the smallest start; end the largest un-widened end.
	start, end int64
	// first is the row which opened the run, closer the row whose end event
	// closed it.
	first, closer int
	count         int64
}

// runSweep is the single-collection reducer shared by Cluster, Merge and
// Complement.  Only a live count is needed.
type runSweep struct {
	c       *Columns
	live    int
	cur     run
	onStart func(row int)
	onClose func(r *run)
}

func (s *runSweep) OnGroup(int64) {
	s.live = 0
}

func (s *runSweep) OnStart(e *Event) {
	if s.live == 0 {
		s.cur = run{group: e.Group, start: e.Pos, end: s.c.Ends[e.Row], first: e.Row}
	}
	s.live++
	s.cur.count++
	if end := s.c.Ends[e.Row]; end > s.cur.end {
		s.cur.end = end
	}
	if s.onStart != nil {
		s.onStart(e.Row)
	}
}

func (s *runSweep) OnEnd(e *Event) {
	s.live--
	if s.live == 0 {
		s.cur.closer = e.Row
		if s.onClose != nil {
			s.onClose(&s.cur)
		}
	}
}

// sweepRuns widens the end of every interval in c by slack and reports the
// resulting runs in (group, start) order.  onStart, if non-nil, is called for
// every member in sweep order before its run is closed.
func sweepRuns(c *Columns, slack int64, sw *stopwatch, onStart func(row int), onClose func(r *run)) {
	events := BuildEvents(nil, c, First, Widening{End: slack}, StartsFirst)
	SortEvents(events)
	sw.mark("build+sort")
	Sweep(events, &runSweep{c: c, onStart: onStart, onClose: onClose})
	sw.mark("sweep")
}

func validateSingle(op string, a *Columns, slack int64) error {
	if err := a.validate(op, "collection"); err != nil {
		return err
	}
	return validateSlack(op, slack)
}

// Cluster assigns a cluster id to every interval of a.  Intervals share an id
// iff they are chained together by overlaps, where an end at x touches any
// start up to x + opts.Slack.  Ids start at 0 and grow by one per cluster,
// across groups.  Rows are reported in sweep order: by group, then start.
func Cluster(a Columns, opts Opts) (Clusters, error) {
	const op = "sweep.Cluster"
	if err := validateSingle(op, &a, opts.Slack); err != nil {
		return Clusters{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	out := Clusters{
		IDs:  make([]int64, 0, a.Len()),
		Idxs: make([]int64, 0, a.Len()),
	}
	var id int64
	sweepRuns(&a, opts.Slack, sw, func(row int) {
		out.IDs = append(out.IDs, id)
		out.Idxs = append(out.Idxs, a.Idx(row))
	}, func(*run) {
		id++
	})
	return out, nil
}

// Merge collapses every cluster (see Cluster) into a single interval spanning
// its members.  The reported ends are not widened by the slack.  Idxs holds
// the idx of the interval that closed each run.
func Merge(a Columns, opts Opts) (Merged, error) {
	const op = "sweep.Merge"
	if err := validateSingle(op, &a, opts.Slack); err != nil {
		return Merged{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	var out Merged
	sweepRuns(&a, opts.Slack, sw, nil, func(r *run) {
		out.add(r.group, a.Idx(r.closer), r.start, r.end, r.count)
	})
	return out, nil
}
