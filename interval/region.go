// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Entry is a single region, 0-based and half-open.
type Entry struct {
	ChrName string
	Start0  int64
	End     int64
}

// ParseRegionString parses a region string of one of the forms
//
//	[contig ID]:[1-based first pos]-[last pos]
//	[contig ID]:[1-based pos]
//	[contig ID]
//
// The last form selects the whole contig.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = errors.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start0 = 0
		result.End = math.MaxInt64
		return
	}
	if colonPos == 0 {
		err = errors.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 64); err != nil {
			err = errors.Wrap(err, "interval.ParseRegionString")
			return
		}
		if pos1 <= 0 {
			err = errors.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		result.Start0 = pos1 - 1
		result.End = pos1
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1, end int64
	if start1, err = strconv.ParseInt(start1Str, 10, 64); err != nil {
		err = errors.Wrap(err, "interval.ParseRegionString")
		return
	}
	if start1 <= 0 {
		err = errors.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	if end, err = strconv.ParseInt(endStr, 10, 64); err != nil {
		err = errors.Wrap(err, "interval.ParseRegionString")
		return
	}
	if end < start1 {
		err = errors.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = start1 - 1
	result.End = end
	return
}

// Restrict returns the rows of t which overlap e.  Rows keep their original
// idx, so results computed on the restricted table still refer to lines of
// the file.  A chromosome absent from dict selects nothing.
func (t *Table) Restrict(e Entry, dict *Dict) Table {
	var out Table
	id, ok := dict.Lookup(e.ChrName)
	if !ok {
		return out
	}
	for r := 0; r < t.Len(); r++ {
		if t.Groups[r] != id {
			continue
		}
		start, end := t.Starts[r], t.Ends[r]
		// Empty rows are kept when they lie inside the region.
		if start < e.End && e.Start0 < end || (start == end && e.Start0 <= start && start < e.End) {
			out.Groups = append(out.Groups, id)
			out.Starts = append(out.Starts, start)
			out.Ends = append(out.Ends, end)
			out.Idxs = append(out.Idxs, t.Idx(r))
			out.Strands = append(out.Strands, t.Strands == nil || t.Strands[r])
		}
	}
	return out
}
