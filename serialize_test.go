//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package unaligned

import (
	"bytes"
	"errors"
	"testing"
)

func testWords(n int) []uint64 {
	rv := make([]uint64, n)
	for i := range rv {
		rv[i] = uint64(i+1)*0x0102030405060708 ^ uint64(i)<<56
	}
	return rv
}

func readWords(b []byte, n int) []uint64 {
	rv := make([]uint64, n)
	for i := range rv {
		rv[i] = NativeEndian.Uint64(b[i*WordSize:])
	}
	return rv
}

func filled(n int, c byte) []byte {
	return bytes.Repeat([]byte{c}, n)
}

func TestSerializeToRoundTripAllOffsets(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 8, 9, 64, 100} {
		src := testWords(n)
		for offset := 0; offset < WordSize; offset++ {
			buf := filled(SerializedSize(n)+offset+WordSize, 0xee)

			SerializeTo(src, buf[offset:])

			got := readWords(buf[offset:], n)
			for i := range src {
				if got[i] != src[i] {
					t.Fatalf("n: %d, offset: %d, i: %d, got: %x, expected: %x",
						n, offset, i, got[i], src[i])
				}
			}

			end := offset + SerializedSize(n)
			if !bytes.Equal(buf[:offset], filled(offset, 0xee)) {
				t.Errorf("n: %d, offset: %d, expected prefix untouched", n, offset)
			}
			if !bytes.Equal(buf[end:], filled(len(buf)-end, 0xee)) {
				t.Errorf("n: %d, offset: %d, expected suffix untouched", n, offset)
			}
		}
	}
}

func TestSerializeToZeroLen(t *testing.T) {
	buf := filled(16, 0x5a)

	SerializeTo(nil, buf[3:])
	SerializeTo([]uint64{}, buf[3:])
	SerializeTo(nil, nil)

	if !bytes.Equal(buf, filled(16, 0x5a)) {
		t.Errorf("expected zero len serialize to not write")
	}
}

func TestSerializeToAdjacentWords(t *testing.T) {
	src := []uint64{0xffffffffffffffff, 0, 0xffffffffffffffff, 0}
	offset := 5
	buf := filled(offset+SerializedSize(len(src)), 0x11)

	SerializeTo(src, buf[offset:])

	for i := range src {
		beg := offset + i*WordSize
		expected := byte(0x00)
		if src[i] != 0 {
			expected = 0xff
		}
		if !bytes.Equal(buf[beg:beg+WordSize], filled(WordSize, expected)) {
			t.Errorf("i: %d, expected word bytes [%d, %d) to be %x, got: %x",
				i, beg, beg+WordSize, expected, buf[beg:beg+WordSize])
		}
	}
}

func TestSerializeToAlignmentIndependent(t *testing.T) {
	src := testWords(17)
	n := SerializedSize(len(src))

	var base []byte
	for offset := 0; offset < 2*WordSize; offset++ {
		buf := make([]byte, offset+n)
		SerializeTo(src, buf[offset:])
		if base == nil {
			base = buf
			continue
		}
		if !bytes.Equal(base, buf[offset:]) {
			t.Errorf("offset: %d, expected bytes identical to offset 0", offset)
		}
	}
}

func TestSerializeToScenario(t *testing.T) {
	src := []uint64{1, 2, 3}
	buf := make([]byte, 32)

	SerializeTo(src, buf[4:])

	for i, expected := range src {
		beg := 4 + i*WordSize
		if NativeEndian.Uint64(buf[beg:beg+WordSize]) != expected {
			t.Errorf("expected bytes [%d, %d) to encode %d", beg, beg+WordSize, expected)
		}
	}

	if !bytes.Equal(buf[0:4], []byte{0, 0, 0, 0}) {
		t.Errorf("expected bytes [0, 4) to be zero, got: %v", buf[0:4])
	}
	if !bytes.Equal(buf[28:32], []byte{0, 0, 0, 0}) {
		t.Errorf("expected bytes [28, 32) to be zero, got: %v", buf[28:32])
	}

	if Endian() == "little" && buf[4] != 1 {
		t.Errorf("expected low byte first on little endian")
	}
	if Endian() == "big" && buf[11] != 1 {
		t.Errorf("expected low byte last on big endian")
	}
}

func TestSerializeToLargeExact(t *testing.T) {
	src := testWords(64)

	for offset := 0; offset < WordSize; offset++ {
		buf := make([]byte, 64*WordSize+offset)

		SerializeTo(src, buf[offset:])

		got := readWords(buf[offset:], len(src))
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("offset: %d, i: %d, mismatch", offset, i)
			}
		}
	}
}

func TestSerializeToSourceUnchanged(t *testing.T) {
	src := testWords(9)
	orig := append([]uint64(nil), src...)

	SerializeTo(src, make([]byte, 100)[3:])

	for i := range src {
		if src[i] != orig[i] {
			t.Errorf("expected src unchanged at %d", i)
		}
	}
}

func TestSerializeToShortBufferPanics(t *testing.T) {
	src := testWords(3)
	buf := filled(32, 0x77)

	// Capacity beyond len must not be used.
	dest := buf[4:27]

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("expected panic on short dest")
			}
		}()

		SerializeTo(src, dest)
	}()

	if !bytes.Equal(buf, filled(32, 0x77)) {
		t.Errorf("expected no writes before short dest panic")
	}
}

func TestSerialize(t *testing.T) {
	src := testWords(3)
	buf := filled(32, 0x33)

	n, err := Serialize(src, buf[1:24])
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes on err, got: %d", n)
	}
	if !bytes.Equal(buf, filled(32, 0x33)) {
		t.Errorf("expected no writes on ErrShortBuffer")
	}

	n, err = Serialize(src, buf[1:25])
	if err != nil {
		t.Errorf("expected exact dest to work, err: %v", err)
	}
	if n != 24 {
		t.Errorf("expected 24 bytes, got: %d", n)
	}
	if buf[25] != 0x33 {
		t.Errorf("expected byte past the words untouched")
	}

	n, err = Serialize(nil, nil)
	if err != nil || n != 0 {
		t.Errorf("expected zero len serialize to work, n: %d, err: %v", n, err)
	}
}

func TestSerializeAt(t *testing.T) {
	src := testWords(4)
	buf := make([]byte, 40)

	for _, offset := range []int{-1, 41} {
		_, err := SerializeAt(src, buf, offset)
		if !errors.Is(err, ErrBadOffset) {
			t.Errorf("offset: %d, expected ErrBadOffset, got: %v", offset, err)
		}
	}

	_, err := SerializeAt(src, buf, 9)
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got: %v", err)
	}

	n, err := SerializeAt(src, buf, 7)
	if err != nil || n != 32 {
		t.Errorf("expected SerializeAt to work, n: %d, err: %v", n, err)
	}
	got := readWords(buf[7:], len(src))
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("i: %d, mismatch", i)
		}
	}

	n, err = SerializeAt(nil, buf, len(buf))
	if err != nil || n != 0 {
		t.Errorf("expected zero len at end of buf to work, err: %v", err)
	}
}

func TestSerializeConcurrentDisjoint(t *testing.T) {
	src := testWords(32)
	n := SerializedSize(len(src))
	buf := make([]byte, WordSize*(n+1))

	done := make(chan int)
	for g := 0; g < WordSize; g++ {
		go func(g int) {
			SerializeTo(src, buf[g*(n+1):])
			done <- g
		}(g)
	}
	for g := 0; g < WordSize; g++ {
		<-done
	}

	for g := 0; g < WordSize; g++ {
		got := readWords(buf[g*(n+1):], len(src))
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("g: %d, i: %d, mismatch", g, i)
			}
		}
	}
}
