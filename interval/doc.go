// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package interval loads genomic intervals from BED and genome files into the
columnar form used by package sweep.  Chromosome names are dictionary-encoded
as dense int64 ids, in order of first appearance, so the sweep never compares
strings.
*/
package interval
