//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

//go:build safe
// +build safe

package unaligned

func putWords(dest []byte, src []uint64) {
	for i, w := range src {
		NativeEndian.PutUint64(dest[i*WordSize:], w)
	}
}

const alignPhaseKnown = false

func alignPhase(dest []byte) int {
	return 0 // Need unsafe package to see addresses.
}
