// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// bio-ranges computes overlaps, clusters, merges, nearest neighbors,
// complements and related interval operations over BED files, writing TSV to
// stdout.
package main

import "github.com/grailbio/ranges/cmd/bio-ranges/cmd"

func main() {
	cmd.Run()
}
