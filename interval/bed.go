// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/ranges/sweep"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops beat the standard library string-split functions
		// when only a few short tokens are expected.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// BEDOpts defines behavior of the BED-loading functions.
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// Table is a BED file in columnar form.  Row r of Columns is line r of the
// file (ignoring headers and blank lines), and its idx is r.
type Table struct {
	sweep.Columns
	// Strands[r] is false iff line r has '-' in the strand column.
	Strands []bool
}

func (t *Table) add(group, start, end int64, forward bool) {
	t.Groups = append(t.Groups, group)
	t.Starts = append(t.Starts, start)
	t.Ends = append(t.Ends, end)
	t.Idxs = append(t.Idxs, int64(len(t.Idxs)))
	t.Strands = append(t.Strands, forward)
}

var (
	trackPrefix   = []byte("track")
	browserPrefix = []byte("browser")
)

func isHeader(line []byte) bool {
	return line[0] == '#' || bytes.HasPrefix(line, trackPrefix) || bytes.HasPrefix(line, browserPrefix)
}

// ReadBED loads every interval of a BED file.  Only the chrom, start and end
// columns are required; the strand is taken from column 6 when present.
// Chromosome names are encoded through dict.  Unlike most BED tools, the
// input need not be sorted.
func ReadBED(r io.Reader, dict *Dict, opts BEDOpts) (Table, error) {
	var startSubtract int64
	if opts.OneBasedInput {
		startSubtract++
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		table  Table
		tokens [6][]byte
	)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isHeader(tokens[0]) {
			continue
		}
		if nToken < 3 {
			return Table{}, errors.Errorf("interval.ReadBED: line %d has fewer tokens than expected", lineIdx)
		}
		start, err := strconv.ParseInt(gunsafe.BytesToString(tokens[1]), 10, 64)
		if err != nil {
			return Table{}, errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
		}
		start -= startSubtract
		if start < 0 {
			return Table{}, errors.Errorf("interval.ReadBED: negative start coordinate %s on line %d", tokens[1], lineIdx)
		}
		end, err := strconv.ParseInt(gunsafe.BytesToString(tokens[2]), 10, 64)
		if err != nil {
			return Table{}, errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
		}
		if end < start {
			return Table{}, errors.Errorf("interval.ReadBED: invalid coordinate pair on line %d", lineIdx)
		}
		forward := true
		if nToken == 6 && len(tokens[5]) == 1 && tokens[5][0] == '-' {
			forward = false
		}
		table.add(dict.idBytes(tokens[0]), start, end, forward)
	}
	if err := scanner.Err(); err != nil {
		return Table{}, errors.Wrap(err, "interval.ReadBED")
	}
	log.Debug.Printf("interval.ReadBED: loaded %d interval(s) on %d chromosome(s)", table.Len(), dict.Len())
	return table, nil
}

// openPath opens path for reading, decompressing it if the extension says it
// is gzipped.  The returned function closes the file.
func openPath(ctx context.Context, path string) (io.Reader, func() error, error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	closeFn := func() error { return infile.Close(ctx) }
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			_ = closeFn()
			return nil, nil, errors.Wrapf(err, "gunzip %s", path)
		}
		reader = gz
	}
	return reader, closeFn, nil
}

// ReadBEDFromPath is ReadBED for a (possibly gzipped, possibly remote) path.
func ReadBEDFromPath(ctx context.Context, path string, dict *Dict, opts BEDOpts) (table Table, err error) {
	reader, closeFn, err := openPath(ctx, path)
	if err != nil {
		return
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ReadBED(reader, dict, opts)
}
