// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/ranges/interval"
	"github.com/grailbio/ranges/sweep"
	"v.io/x/lib/cmdline"
)

type opFunc func(ctx context.Context, in *inputs, w *writer) error

func addCommonFlags(cmd *cmdline.Command) *commonFlags {
	flags := &commonFlags{}
	cmd.Flags.StringVar(&flags.out, "out", "", "Output path; stdout if empty.  Paths ending in .gz are bgzipped")
	cmd.Flags.StringVar(&flags.region, "region", "", "Only use intervals overlapping the region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	cmd.Flags.BoolVar(&flags.oneBased, "one-based", false, "Interpret BED boundaries as one-based [start, end]")
	cmd.Flags.BoolVar(&flags.trace, "trace", false, "Log the time taken by each stage of the operation")
	return flags
}

// newCmd builds a subcommand taking nPaths BED files.  bind registers the
// command-specific flags and returns the operation.
func newCmd(name, short string, nPaths int, bind func(cmd *cmdline.Command, flags *commonFlags) opFunc) *cmdline.Command {
	argsName := "a.bed"
	if nPaths == 2 {
		argsName = "a.bed b.bed"
	}
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: argsName,
	}
	flags := addCommonFlags(cmd)
	op := bind(cmd, flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := checkArgs(name, argv, nPaths); err != nil {
			return err
		}
		ctx := context.Background()
		in, err := load(ctx, flags, argv)
		if err != nil {
			return err
		}
		return withOutput(ctx, flags, env.Stdout, func(out io.Writer) error {
			return op(ctx, in, newWriter(out, in.dict))
		})
	})
	return cmd
}

func slackFlag(cmd *cmdline.Command) *int64 {
	return cmd.Flags.Int64("slack", 0, "Treat intervals at most this far apart as touching")
}

func newCmdOverlap() *cmdline.Command {
	return newCmd("overlap", "Report every pair of overlapping intervals from two BED files", 2,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			overlapType := cmd.Flags.String("overlap-type", sweep.DefaultOverlapOpts.Type.String(), "Partners to report per interval of a.bed: 'all', 'first' or 'last'")
			contained := cmd.Flags.Bool("contained", false, "Only report pairs where one interval contains the other")
			invert := cmd.Flags.Bool("invert", false, "Instead report the intervals of a.bed which overlap nothing in b.bed")
			return func(ctx context.Context, in *inputs, w *writer) error {
				if *invert {
					return nonOverlapping(in, w, sweep.Opts{Slack: *slack, Trace: traceFunc(flags.trace)})
				}
				t, err := sweep.ParseOverlapType(*overlapType)
				if err != nil {
					return err
				}
				return overlap(in, w, sweep.OverlapOpts{
					Slack:     *slack,
					Type:      t,
					Contained: *contained,
					Trace:     traceFunc(flags.trace),
				})
			}
		})
}

func newCmdNearest() *cmdline.Command {
	return newCmd("nearest", "Report the nearest intervals of b.bed for every interval of a.bed", 2,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			k := cmd.Flags.Int("k", sweep.DefaultNearestOpts.K, "Number of distinct distances to report per interval; ties are all reported")
			includeOverlaps := cmd.Flags.Bool("include-overlaps", sweep.DefaultNearestOpts.IncludeOverlaps, "Report overlapping intervals at distance 0")
			direction := cmd.Flags.String("direction", sweep.DefaultNearestOpts.Direction.String(), "'any', 'forward' (downstream) or 'backward' (upstream)")
			return func(ctx context.Context, in *inputs, w *writer) error {
				dir, err := sweep.ParseDirection(*direction)
				if err != nil {
					return err
				}
				return nearest(in, w, sweep.NearestOpts{
					Slack:           *slack,
					K:               *k,
					IncludeOverlaps: *includeOverlaps,
					Direction:       dir,
					Trace:           traceFunc(flags.trace),
				})
			}
		})
}

func newCmdCluster() *cmdline.Command {
	return newCmd("cluster", "Assign a cluster id to every interval; touching intervals share an id", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return cluster(in, w, sweep.Opts{Slack: *slack, Trace: traceFunc(flags.trace)})
			}
		})
}

func newCmdMerge() *cmdline.Command {
	return newCmd("merge", "Merge touching intervals", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return merge(in, w, sweep.Opts{Slack: *slack, Trace: traceFunc(flags.trace)})
			}
		})
}

func newCmdBoundaries() *cmdline.Command {
	return newCmd("boundaries", "Report the span of all intervals on each chromosome", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			return func(ctx context.Context, in *inputs, w *writer) error {
				return boundaries(in, w)
			}
		})
}

func newCmdComplement() *cmdline.Command {
	return newCmd("complement", "Report the gaps between intervals", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			genome := cmd.Flags.String("genome", "", "Genome file with chromosome lengths (name<TAB>length per line); required")
			includeFirst := cmd.Flags.Bool("include-first", sweep.DefaultComplementOpts.IncludeFirstInterval, "Report the gap before the first interval of each chromosome")
			return func(ctx context.Context, in *inputs, w *writer) error {
				if *genome == "" {
					return fmt.Errorf("complement: -genome is required")
				}
				lengths, err := interval.ReadGenomeFromPath(ctx, *genome, in.dict)
				if err != nil {
					return err
				}
				return complement(in, w, lengths, sweep.ComplementOpts{
					Slack:                *slack,
					IncludeFirstInterval: *includeFirst,
					Trace:                traceFunc(flags.trace),
				})
			}
		})
}

func newCmdSubtract() *cmdline.Command {
	return newCmd("subtract", "Remove the parts of a.bed intervals covered by b.bed", 2,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return subtract(in, w, sweep.Opts{Slack: *slack, Trace: traceFunc(flags.trace)})
			}
		})
}

func sizeFlag(cmd *cmdline.Command) *int64 {
	return cmd.Flags.Int64("size", 0, "Tile or window size; required")
}

func newCmdTile() *cmdline.Command {
	return newCmd("tile", "Report the genome-aligned tiles each interval touches", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			size := sizeFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return tile(in, w, *size, sweep.Opts{Trace: traceFunc(flags.trace)})
			}
		})
}

func newCmdWindow() *cmdline.Command {
	return newCmd("window", "Split every interval into fixed-size windows", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			size := sizeFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return window(in, w, *size, sweep.Opts{Trace: traceFunc(flags.trace)})
			}
		})
}

func newCmdSplit() *cmdline.Command {
	return newCmd("split", "Cut intervals at every start and end", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			between := cmd.Flags.Bool("between", false, "Also report the uncovered pieces between intervals")
			return func(ctx context.Context, in *inputs, w *writer) error {
				return split(in, w, sweep.SplitOpts{Between: *between, Trace: traceFunc(flags.trace)})
			}
		})
}

func newCmdSort() *cmdline.Command {
	return newCmd("sort", "Sort intervals by chromosome (in order of appearance), start and end", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			return func(ctx context.Context, in *inputs, w *writer) error {
				return sortBED(in, w)
			}
		})
}

func newCmdMaxDisjoint() *cmdline.Command {
	return newCmd("max-disjoint", "Greedily pick a largest set of non-overlapping intervals", 1,
		func(cmd *cmdline.Command, flags *commonFlags) opFunc {
			slack := slackFlag(cmd)
			return func(ctx context.Context, in *inputs, w *writer) error {
				return maxDisjoint(in, w, sweep.Opts{Slack: *slack, Trace: traceFunc(flags.trace)})
			}
		})
}

// Run is the entry point of bio-ranges.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-ranges",
			Short:    "Interval operations on BED files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdOverlap(),
				newCmdNearest(),
				newCmdCluster(),
				newCmdMerge(),
				newCmdBoundaries(),
				newCmdComplement(),
				newCmdSubtract(),
				newCmdTile(),
				newCmdWindow(),
				newCmdSplit(),
				newCmdSort(),
				newCmdMaxDisjoint(),
			},
		})
}
