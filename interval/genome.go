// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"io"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// ReadGenome parses a genome file ("chrom length" per line, e.g. a .fai or
// chrom.sizes file; extra columns are ignored) into a map from dict id to
// length.  Every chromosome is added to dict.
func ReadGenome(r io.Reader, dict *Dict) (map[int64]int64, error) {
	lengths := make(map[int64]int64)
	scanner := bufio.NewScanner(r)
	var tokens [2][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		nToken := getTokens(tokens[:], scanner.Bytes())
		if nToken == 0 || tokens[0][0] == '#' {
			continue
		}
		if nToken < 2 {
			return nil, errors.Errorf("interval.ReadGenome: line %d has no length", lineIdx)
		}
		length, err := strconv.ParseInt(gunsafe.BytesToString(tokens[1]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "interval.ReadGenome: line %d", lineIdx)
		}
		if length < 0 {
			return nil, errors.Errorf("interval.ReadGenome: negative length on line %d", lineIdx)
		}
		id := dict.idBytes(tokens[0])
		if _, dup := lengths[id]; dup {
			return nil, errors.Errorf("interval.ReadGenome: chromosome %s repeated on line %d", tokens[0], lineIdx)
		}
		lengths[id] = length
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "interval.ReadGenome")
	}
	return lengths, nil
}

// ReadGenomeFromPath is ReadGenome for a (possibly gzipped) path.
func ReadGenomeFromPath(ctx context.Context, path string, dict *Dict) (lengths map[int64]int64, err error) {
	reader, closeFn, err := openPath(ctx, path)
	if err != nil {
		return
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ReadGenome(reader, dict)
}
