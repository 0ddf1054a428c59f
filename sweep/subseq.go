// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sweep

// SplicedSubsequence treats every group of a as one transcript whose exons are
// its intervals, and cuts out the spliced range [opts.Start, opts.End).
// Offsets count from the 5' end: from the smallest coordinate on forward
// groups, from the largest on reverse groups.  Negative offsets count back
// from the 3' end.  A group's strand is that of its first interval in sort
// order; strands may be nil, meaning all forward.
//
// Exons left empty are dropped.  The remaining rows are reported per group in
// ascending genomic order.
func SplicedSubsequence(a Columns, strands []bool, opts SubseqOpts) (Ranges, error) {
	const op = "sweep.SplicedSubsequence"
	if err := a.validate(op, "collection"); err != nil {
		return Ranges{}, err
	}
	if err := validateStrands(op, &a, strands); err != nil {
		return Ranges{}, err
	}
	sw := newStopwatch(op, opts.Trace)
	rows := sortedRows(&a)
	sw.mark("sort")

	var (
		out    Ranges
		starts []int64
		ends   []int64
	)
	for lo := 0; lo < len(rows); {
		hi := lo + 1
		for hi < len(rows) && a.Groups[rows[hi]] == a.Groups[rows[lo]] {
			hi++
		}
		group := rows[lo:hi]
		fwd := opts.ForcePlusStrand || forward(strands, group[0])
		starts = starts[:0]
		ends = ends[:0]
		var total int64
		for _, r := range group {
			starts = append(starts, a.Starts[r])
			ends = append(ends, a.Ends[r])
			total += a.Ends[r] - a.Starts[r]
		}
		from, to := opts.Start, opts.End
		if opts.ToEnd || to == maxPos {
			to = total
		}
		if from < 0 {
			from += total
		}
		if to < 0 {
			to += total
		}
		// cum is the spliced offset of the exon's 5' end.
		var cum int64
		for n := range group {
			i := n
			if !fwd {
				i = len(group) - 1 - n
			}
			length := ends[i] - starts[i]
			headTrim := from - cum
			tailTrim := cum + length - to
			if fwd {
				if headTrim > 0 {
					starts[i] += headTrim
				}
				if tailTrim > 0 {
					ends[i] -= tailTrim
				}
			} else {
				if headTrim > 0 {
					ends[i] -= headTrim
				}
				if tailTrim > 0 {
					starts[i] += tailTrim
				}
			}
			cum += length
		}
		for i, r := range group {
			if starts[i] < ends[i] {
				out.add(a.Groups[r], starts[i], ends[i], a.Idx(r))
			}
		}
		lo = hi
	}
	sw.mark("slice")
	return out, nil
}
