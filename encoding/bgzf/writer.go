// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bgzf writes the block-gzipped format used for indexable BED and
// TSV files.  A .bgzf file is a sequence of complete gzip members, each
// holding at most 64KB of uncompressed data and carrying its own compressed
// size in a "BC" extra subfield, followed by a 28-byte empty terminator
// member.  Any gzip reader which supports multistream input can read it.
//
// For the format, see the SAM/BAM spec:
// https://samtools.github.io/hts-specs/SAMv1.pdf
package bgzf

import (
	"bytes"
	"io"

	"github.com/grailbio/base/compress/libdeflate"
	"github.com/pkg/errors"
)

const (
	// DefaultUncompressedBlockSize is the block payload size chosen by
	// bgzip, sambamba and biogo.
	DefaultUncompressedBlockSize = 0x0ff00

	// maxCompressedBlockSize bounds the size of one gzip member.
	maxCompressedBlockSize = 0x10000

	// bsizeOffset is the offset of the BSIZE value in a member header: the
	// 10-byte fixed header, the 2-byte XLEN, then the 4-byte subfield header.
	bsizeOffset = 16
)

var (
	// bgzfExtra is the "BC" subfield with a BSIZE placeholder.
	bgzfExtra = [...]byte{66, 67, 2, 0, 0, 0}

	terminator = []byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x06, 0x00, 0x42, 0x43,
		0x02, 0x00, 0x1b, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
)

// Writer compresses its input into .bgzf blocks.  It is not safe for
// concurrent use.
type Writer struct {
	w          io.Writer
	level      int
	blockSize  int
	pending    bytes.Buffer
	compressed bytes.Buffer
	deflater   *libdeflate.Writer
}

// NewWriter returns a Writer with the given compression level (as in
// compress/flate).  Close must be called to write the final block and the
// terminator.
func NewWriter(w io.Writer, level int) *Writer {
	return &Writer{w: w, level: level, blockSize: DefaultUncompressedBlockSize}
}

// Write buffers buf, emitting every block which fills up.
func (w *Writer) Write(buf []byte) (int, error) {
	n := len(buf)
	for len(buf) > 0 {
		room := w.blockSize - w.pending.Len()
		if room > len(buf) {
			room = len(buf)
		}
		w.pending.Write(buf[:room])
		buf = buf[room:]
		if w.pending.Len() == w.blockSize {
			if err := w.flushBlock(); err != nil {
				return n - len(buf), err
			}
		}
	}
	return n, nil
}

// Close writes any buffered data and the terminator.  It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if w.pending.Len() > 0 {
		if err := w.flushBlock(); err != nil {
			return err
		}
	}
	_, err := w.w.Write(terminator)
	return err
}

func (w *Writer) flushBlock() error {
	w.compressed.Reset()
	var err error
	if w.deflater == nil {
		if w.deflater, err = libdeflate.NewWriterLevel(&w.compressed, w.level); err != nil {
			return errors.Wrap(err, "bgzf")
		}
	} else {
		w.deflater.Reset(&w.compressed)
	}
	w.deflater.Header.Extra = append([]byte(nil), bgzfExtra[:]...)
	w.deflater.Header.OS = 0xff
	if _, err = w.deflater.Write(w.pending.Bytes()); err != nil {
		return errors.Wrap(err, "bgzf")
	}
	if err = w.deflater.Close(); err != nil {
		return errors.Wrap(err, "bgzf")
	}
	w.pending.Reset()

	b := w.compressed.Bytes()
	bsize := len(b) - 1
	if bsize >= maxCompressedBlockSize {
		return errors.Errorf("bgzf: compressed block is too big: %d >= %d", bsize, maxCompressedBlockSize)
	}
	if len(b) < bsizeOffset+2 || !bytes.Equal(b[bsizeOffset-4:bsizeOffset], bgzfExtra[:4]) {
		return errors.Errorf("bgzf: missing BC subfield in block header")
	}
	b[bsizeOffset] = byte(bsize)
	b[bsizeOffset+1] = byte(bsize >> 8)
	_, err = w.w.Write(b)
	return err
}
