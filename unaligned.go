//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

// Package unaligned serializes sequences of 64-bit words into byte
// buffers whose start need not be 8-byte aligned.  Each word is
// written as 8 contiguous bytes in the platform's native byte order,
// tightly packed, in increasing index order.
//
// By default the per-word store is done through an unsafe *[8]byte
// view of the word.  Build with the "safe" tag to use an
// implementation that does not need the unsafe package.
package unaligned

import (
	"errors"
	"fmt"
)

// WordSize is the number of bytes a serialized word occupies.
const WordSize = 8

// ErrShortBuffer is returned when the destination cannot hold every
// serialized word.
var ErrShortBuffer = errors.New("destination buffer too short")

// ErrBadOffset is returned when a destination offset lies outside the
// destination.
var ErrBadOffset = errors.New("bad destination offset")

// ErrNotOsFile is returned when a File cannot be converted to an
// os.File for mmap()'ing.
var ErrNotOsFile = errors.New("file not convertible to os.File")

// SerializedSize returns the number of bytes n words serialize into.
func SerializedSize(n int) int {
	return n * WordSize
}

// SerializeTo writes the native byte order representation of each
// word of src into dest, with src[i] landing in
// dest[i*WordSize:(i+1)*WordSize].  The start of dest may have any
// alignment.  Bytes of dest past len(src)*WordSize are not touched.
//
// The caller must supply a dest of at least SerializedSize(len(src))
// bytes that does not overlap src.  A short dest panics before any
// byte is written; use Serialize for an error instead.
func SerializeTo(src []uint64, dest []byte) {
	if len(src) == 0 {
		return
	}

	_ = dest[SerializedSize(len(src))-1] // Bounds check before any writes.

	putWords(dest, src)
}

// Serialize is like SerializeTo, but reports a short dest as an
// ErrShortBuffer, leaving dest unmodified.  It returns the number of
// bytes written.
func Serialize(src []uint64, dest []byte) (int, error) {
	n := SerializedSize(len(src))
	if len(dest) < n {
		return 0, fmt.Errorf("unaligned: serialize %d words needs %d bytes,"+
			" have %d: %w", len(src), n, len(dest), ErrShortBuffer)
	}

	SerializeTo(src, dest)

	return n, nil
}

// SerializeAt serializes src into buf starting at byte offset, which
// is usually not a multiple of WordSize.
func SerializeAt(src []uint64, buf []byte, offset int) (int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, fmt.Errorf("unaligned: offset %d, buf len %d: %w",
			offset, len(buf), ErrBadOffset)
	}

	return Serialize(src, buf[offset:])
}
