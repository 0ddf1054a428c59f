// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/ranges/encoding/bgzf"
	"github.com/grailbio/ranges/interval"
	"github.com/grailbio/ranges/sweep"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	out      string
	region   string
	oneBased bool
	trace    bool
}

// input is one loaded BED file.  full is indexed by idx; rows is full after
// the -region restriction and is what operations run on.
type input struct {
	full interval.Table
	rows interval.Table
}

type inputs struct {
	dict  *interval.Dict
	files []input
}

// traceFunc returns the hook for -trace.  Unlike sweep.LogTrace it logs at
// info level: asking for -trace is asking to see the timings, without also
// turning on every other debug message.
func traceFunc(enabled bool) sweep.TraceFunc {
	if !enabled {
		return nil
	}
	return func(op, stage string, elapsed time.Duration) {
		log.Printf("%s: %s took %v", op, stage, elapsed)
	}
}

// load reads the BED files named by paths into one dictionary.
func load(ctx context.Context, flags *commonFlags, paths []string) (*inputs, error) {
	in := &inputs{dict: interval.NewDict()}
	var (
		region    interval.Entry
		hasRegion bool
	)
	if flags.region != "" {
		var err error
		if region, err = interval.ParseRegionString(flags.region); err != nil {
			return nil, err
		}
		hasRegion = true
	}
	for _, path := range paths {
		table, err := interval.ReadBEDFromPath(ctx, path, in.dict, interval.BEDOpts{OneBasedInput: flags.oneBased})
		if err != nil {
			return nil, err
		}
		f := input{full: table, rows: table}
		if hasRegion {
			f.rows = table.Restrict(region, in.dict)
		}
		log.Printf("%s: %d interval(s), %d selected", path, f.full.Len(), f.rows.Len())
		in.files = append(in.files, f)
	}
	return in, nil
}

// writer renders rows as TSV, decoding chromosome ids.
type writer struct {
	tsv  *tsv.Writer
	dict *interval.Dict
}

func newWriter(out io.Writer, dict *interval.Dict) *writer {
	return &writer{tsv: tsv.NewWriter(out), dict: dict}
}

func (w *writer) header(cols string) error {
	w.tsv.WriteString(cols)
	return w.tsv.EndLine()
}

func (w *writer) span(group, start, end int64) {
	w.tsv.WriteString(w.dict.Name(group))
	w.int64(start)
	w.int64(end)
}

// line writes the interval on BED line idx of t.
func (w *writer) line(t *interval.Table, idx int64) {
	w.span(t.Groups[idx], t.Starts[idx], t.Ends[idx])
}

func (w *writer) int64(v int64) {
	w.tsv.WriteString(strconv.FormatInt(v, 10))
}

func (w *writer) float64(v float64) {
	w.tsv.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
}

func (w *writer) endLine() error {
	return w.tsv.EndLine()
}

func (w *writer) flush() error {
	return w.tsv.Flush()
}

// bgzfLevel is the compression level of bgzipped output.
const bgzfLevel = 6

// withOutput runs fn on flags.out, or on stdout if no path was given.  Paths
// ending in .gz are written block-gzipped.  If fn fails, the partial output
// file is removed.
func withOutput(ctx context.Context, flags *commonFlags, stdout io.Writer, fn func(out io.Writer) error) (err error) {
	if flags.out == "" {
		return fn(stdout)
	}
	f, err := file.Create(ctx, flags.out)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close(ctx)
		if err != nil {
			if rerr := file.Remove(ctx, flags.out); rerr != nil {
				log.Error.Printf("remove %s: %v", flags.out, rerr)
			}
			return
		}
		err = cerr
	}()
	out := f.Writer(ctx)
	if fileio.DetermineType(flags.out) != fileio.Gzip {
		return fn(out)
	}
	bw := bgzf.NewWriter(out, bgzfLevel)
	if err = fn(bw); err != nil {
		return err
	}
	return bw.Close()
}

func checkArgs(name string, argv []string, n int) error {
	if len(argv) != n {
		return fmt.Errorf("%s takes %d BED path(s), but got %v", name, n, argv)
	}
	return nil
}
