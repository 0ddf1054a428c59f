// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sweep implements interval-algebra operations (overlap joins,
// clustering, merging, k-nearest neighbors, complements, subtraction, tiling)
// over columnar collections of genomic intervals, using a
// chromosome-partitioned sweep line.
//
// Every collection is a Columns value: parallel Groups/Starts/Ends arrays plus
// an optional Idxs array carrying the caller's row identifiers.  Intervals are
// half-open, [start, end), and intervals in different groups never interact.
//
// Each operation follows the same shape.  The input columns are converted to
// Events (two per interval), the events are sorted by (group, position,
// tie-break), and Sweep feeds them to a Reducer which holds the per-group
// active state.  The reducer is reset whenever the group changes.  Results are
// returned as columnar structs of caller idx values.
//
// Operations validate their inputs before doing any work; an invalid input
// produces an errors.Invalid error and no output.  Empty input is not an error.
package sweep
