//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

//go:build !safe
// +build !safe

package unaligned

import (
	"unsafe"
)

// putWords stores each word through a *[WordSize]byte.  A byte array
// has an alignment of 1, so the store is legal at any address, unlike
// a *(*uint64) store through a misaligned pointer.
func putWords(dest []byte, src []uint64) {
	for i := range src {
		*(*[WordSize]byte)(dest[i*WordSize:]) =
			*(*[WordSize]byte)(unsafe.Pointer(&src[i]))
	}
}

// alignPhaseKnown is true when alignPhase reports real addresses.
const alignPhaseKnown = true

// alignPhase returns the address of the first byte of dest modulo
// WordSize.
func alignPhase(dest []byte) int {
	if len(dest) == 0 {
		return 0
	}
	return int(uintptr(unsafe.Pointer(&dest[0])) % WordSize)
}
