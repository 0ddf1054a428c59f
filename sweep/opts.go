// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// TraceFunc receives the elapsed time of each stage of an operation, e.g.
// ("Overlaps", "sort", 1.2s).  It is called synchronously.
type TraceFunc func(op, stage string, elapsed time.Duration)

// LogTrace is a TraceFunc which writes stage timings to the debug log.
func LogTrace(op, stage string, elapsed time.Duration) {
	log.Debug.Printf("%s: %s took %v", op, stage, elapsed)
}

// stopwatch reports consecutive stage timings to a (possibly nil) TraceFunc.
type stopwatch struct {
	op    string
	trace TraceFunc
	last  time.Time
}

func newStopwatch(op string, trace TraceFunc) *stopwatch {
	sw := &stopwatch{op: op, trace: trace}
	if trace != nil {
		sw.last = time.Now()
	}
	return sw
}

func (sw *stopwatch) mark(stage string) {
	if sw.trace == nil {
		return
	}
	now := time.Now()
	sw.trace(sw.op, stage, now.Sub(sw.last))
	sw.last = now
}

// Opts is shared by operations which only need a slack and a trace hook.
type Opts struct {
	// Slack widens intervals before sweeping.  Which boundaries are widened is
	// documented per operation.
	Slack int64
	// Trace, if non-nil, receives stage timings.
	Trace TraceFunc
}

// DefaultOpts is the zero-slack configuration.
var DefaultOpts = Opts{}

// OverlapType selects how many partners Overlaps reports per query interval.
type OverlapType int

const (
	// OverlapAll reports every overlapping pair.
	OverlapAll OverlapType = iota
	// OverlapFirst reports, per query, the partner whose start comes first in
	// sweep order.  This is not necessarily the closest partner.
	OverlapFirst
	// OverlapLast reports, per query, the partner whose start comes last in
	// sweep order.
	OverlapLast
)

var overlapTypeNames = map[string]OverlapType{
	"all":   OverlapAll,
	"first": OverlapFirst,
	"last":  OverlapLast,
}

// ParseOverlapType parses "all", "first" or "last" (case-insensitive).
func ParseOverlapType(s string) (OverlapType, error) {
	if t, ok := overlapTypeNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return OverlapAll, errors.E(errors.Invalid, fmt.Sprintf("sweep.ParseOverlapType: unknown overlap type %q", s))
}

func (t OverlapType) valid() bool {
	return t >= OverlapAll && t <= OverlapLast
}

func (t OverlapType) String() string {
	switch t {
	case OverlapAll:
		return "all"
	case OverlapFirst:
		return "first"
	case OverlapLast:
		return "last"
	}
	return fmt.Sprintf("OverlapType(%d)", int(t))
}

// Direction restricts a nearest-neighbor search.  Directions are in
// coordinate space; strand is not considered.
type Direction int

const (
	// Any searches both sides of the query.
	Any Direction = iota
	// Forward only considers intervals starting at or after the query end.
	Forward
	// Backward only considers intervals ending at or before the query start.
	Backward
)

var directionNames = map[string]Direction{
	"any":        Any,
	"forward":    Forward,
	"downstream": Forward,
	"backward":   Backward,
	"upstream":   Backward,
}

// ParseDirection parses "any", "forward" or "backward" (case-insensitive).
// "downstream" and "upstream" are accepted as synonyms of the latter two.
func ParseDirection(s string) (Direction, error) {
	if d, ok := directionNames[strings.ToLower(s)]; ok {
		return d, nil
	}
	return Any, errors.E(errors.Invalid, fmt.Sprintf("sweep.ParseDirection: unknown direction %q", s))
}

func (d Direction) valid() bool {
	return d >= Any && d <= Backward
}

func (d Direction) String() string {
	switch d {
	case Any:
		return "any"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// OverlapOpts configures Overlaps.
type OverlapOpts struct {
	// Slack widens every interval of the first collection on both sides.
	Slack int64
	// Type selects all pairs, or one partner per query.
	Type OverlapType
	// Contained restricts the output to pairs where one interval spans the
	// other.
	Contained bool
	Trace     TraceFunc
}

// DefaultOverlapOpts reports every overlapping pair.
var DefaultOverlapOpts = OverlapOpts{Type: OverlapAll}

// NearestOpts configures Nearest.
type NearestOpts struct {
	// Slack widens every query interval on both sides.
	Slack int64
	// K is the number of distinct distances reported per query.  All
	// neighbors tied at a reported distance are included.
	K int
	// IncludeOverlaps reports overlapping intervals at distance 0.
	IncludeOverlaps bool
	Direction       Direction
	Trace           TraceFunc
}

// DefaultNearestOpts finds the closest neighbors on either side, overlaps
// included.
var DefaultNearestOpts = NearestOpts{
	K:               1,
	IncludeOverlaps: true,
	Direction:       Any,
}

// ComplementOpts configures Complement.
type ComplementOpts struct {
	// Slack widens interval ends, so gaps no longer than Slack are not
	// reported.
	Slack int64
	// IncludeFirstInterval reports the gap between position 0 and the first
	// interval of each group.
	IncludeFirstInterval bool
	Trace                TraceFunc
}

// DefaultComplementOpts reports every gap, including the leading one.
var DefaultComplementOpts = ComplementOpts{IncludeFirstInterval: true}

// SplitOpts configures Split.
type SplitOpts struct {
	// Between also reports the uncovered segments between covered ones.
	Between bool
	Trace   TraceFunc
}

// SubseqOpts configures SplicedSubsequence.  Start and End are offsets in
// spliced (concatenated) coordinates of each group, counted from the 5' end;
// negative values count back from the 3' end.
//
// The zero value selects [0, 0), i.e. nothing.  Start from
// DefaultSubseqOpts, or set ToEnd, to select through the end of each group.
type SubseqOpts struct {
	Start int64
	// End is exclusive; math.MaxInt64 means "to the end of the group".
	End int64
	// ToEnd ignores End and selects through the end of each group.
	ToEnd bool
	// ForcePlusStrand treats every group as forward-stranded.
	ForcePlusStrand bool
	Trace           TraceFunc
}

// DefaultSubseqOpts selects whole groups.
var DefaultSubseqOpts = SubseqOpts{Start: 0, End: maxPos, ToEnd: true}
