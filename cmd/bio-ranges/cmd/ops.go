// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/grailbio/ranges/interval"
	"github.com/grailbio/ranges/sweep"
)

// Each operation reads in.files, writes one TSV row per result row and
// flushes w.

func overlap(in *inputs, w *writer, opts sweep.OverlapOpts) error {
	a, b := &in.files[0], &in.files[1]
	pairs, err := sweep.Overlaps(a.rows.Columns, b.rows.Columns, opts)
	if err != nil {
		return err
	}
	if err = w.header("#chrom\tstart\tend\tchrom_b\tstart_b\tend_b"); err != nil {
		return err
	}
	for i := 0; i < pairs.Len(); i++ {
		w.line(&a.full, pairs.Idx1[i])
		w.line(&b.full, pairs.Idx2[i])
		if err = w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func nonOverlapping(in *inputs, w *writer, opts sweep.Opts) error {
	a, b := &in.files[0], &in.files[1]
	idxs, err := sweep.NonOverlapping(a.rows.Columns, b.rows.Columns, opts)
	if err != nil {
		return err
	}
	return writeLines(w, &a.full, idxs)
}

func nearest(in *inputs, w *writer, opts sweep.NearestOpts) error {
	a, b := &in.files[0], &in.files[1]
	nn, err := sweep.Nearest(a.rows.Columns, b.rows.Columns, opts)
	if err != nil {
		return err
	}
	if err = w.header("#chrom\tstart\tend\tchrom_b\tstart_b\tend_b\tdistance"); err != nil {
		return err
	}
	for i := 0; i < nn.Len(); i++ {
		w.line(&a.full, nn.Idx1[i])
		w.line(&b.full, nn.Idx2[i])
		w.int64(nn.Distances[i])
		if err = w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func cluster(in *inputs, w *writer, opts sweep.Opts) error {
	a := &in.files[0]
	clusters, err := sweep.Cluster(a.rows.Columns, opts)
	if err != nil {
		return err
	}
	if err = w.header("#chrom\tstart\tend\tcluster"); err != nil {
		return err
	}
	for i := 0; i < clusters.Len(); i++ {
		w.line(&a.full, clusters.Idxs[i])
		w.int64(clusters.IDs[i])
		if err = w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func writeMerged(w *writer, m sweep.Merged) error {
	if err := w.header("#chrom\tstart\tend\tcount"); err != nil {
		return err
	}
	for i := 0; i < m.Len(); i++ {
		w.span(m.Groups[i], m.Starts[i], m.Ends[i])
		w.int64(m.Counts[i])
		if err := w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func merge(in *inputs, w *writer, opts sweep.Opts) error {
	m, err := sweep.Merge(in.files[0].rows.Columns, opts)
	if err != nil {
		return err
	}
	return writeMerged(w, m)
}

func boundaries(in *inputs, w *writer) error {
	m, err := sweep.Boundaries(in.files[0].rows.Columns)
	if err != nil {
		return err
	}
	return writeMerged(w, m)
}

func writeRanges(w *writer, r sweep.Ranges) error {
	if err := w.header("#chrom\tstart\tend"); err != nil {
		return err
	}
	for i := 0; i < r.Len(); i++ {
		w.span(r.Groups[i], r.Starts[i], r.Ends[i])
		if err := w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func writeLines(w *writer, t *interval.Table, idxs []int64) error {
	if err := w.header("#chrom\tstart\tend"); err != nil {
		return err
	}
	for _, idx := range idxs {
		w.line(t, idx)
		if err := w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func complement(in *inputs, w *writer, lengths map[int64]int64, opts sweep.ComplementOpts) error {
	r, err := sweep.Complement(in.files[0].rows.Columns, lengths, opts)
	if err != nil {
		return err
	}
	return writeRanges(w, r)
}

func subtract(in *inputs, w *writer, opts sweep.Opts) error {
	r, err := sweep.Subtract(in.files[0].rows.Columns, in.files[1].rows.Columns, opts)
	if err != nil {
		return err
	}
	return writeRanges(w, r)
}

func split(in *inputs, w *writer, opts sweep.SplitOpts) error {
	r, err := sweep.Split(in.files[0].rows.Columns, opts)
	if err != nil {
		return err
	}
	return writeRanges(w, r)
}

func writeTiles(w *writer, a *input, tiles sweep.Tiles, fractions bool) error {
	cols := "#chrom\tstart\tend"
	if fractions {
		cols += "\tfraction"
	}
	if err := w.header(cols); err != nil {
		return err
	}
	for i := 0; i < tiles.Len(); i++ {
		w.span(a.full.Groups[tiles.Idxs[i]], tiles.Starts[i], tiles.Ends[i])
		if fractions {
			w.float64(tiles.Fractions[i])
		}
		if err := w.endLine(); err != nil {
			return err
		}
	}
	return w.flush()
}

func tile(in *inputs, w *writer, size int64, opts sweep.Opts) error {
	a := &in.files[0]
	tiles, err := sweep.Tile(a.rows.Columns, size, a.rows.Strands, opts)
	if err != nil {
		return err
	}
	return writeTiles(w, a, tiles, true)
}

func window(in *inputs, w *writer, size int64, opts sweep.Opts) error {
	a := &in.files[0]
	tiles, err := sweep.Window(a.rows.Columns, size, a.rows.Strands, opts)
	if err != nil {
		return err
	}
	return writeTiles(w, a, tiles, false)
}

func sortBED(in *inputs, w *writer) error {
	a := &in.files[0]
	idxs, err := sweep.SortOrder(a.rows.Columns)
	if err != nil {
		return err
	}
	return writeLines(w, &a.full, idxs)
}

func maxDisjoint(in *inputs, w *writer, opts sweep.Opts) error {
	a := &in.files[0]
	idxs, err := sweep.MaxDisjoint(a.rows.Columns, opts)
	if err != nil {
		return err
	}
	return writeLines(w, &a.full, idxs)
}
