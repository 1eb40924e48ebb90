//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package unaligned

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
)

// SerializeToFile serializes src directly into the file region that
// starts at offset, growing the file if needed.  The region is
// mmap()'ed from the allocation granularity boundary at or below
// offset, so the destination is misaligned whenever offset is.
func SerializeToFile(f File, offset int64, src []uint64) error {
	return serializeToFile(f, offset, src, Serialize)
}

func serializeToFile(f File, offset int64, src []uint64,
	serialize func([]uint64, []byte) (int, error)) error {
	if offset < 0 {
		return fmt.Errorf("unaligned: serializeToFile offset %d: %w",
			offset, ErrBadOffset)
	}

	if len(src) == 0 {
		return nil
	}

	osFile := ToOsFile(f)
	if osFile == nil {
		return ErrNotOsFile
	}

	nbytes := SerializedSize(len(src))
	endOffset := offset + int64(nbytes)

	finfo, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unaligned: serializeToFile stat, err: %v", err)
	}

	if finfo.Size() < endOffset {
		err = f.Truncate(endOffset)
		if err != nil {
			return fmt.Errorf("unaligned: serializeToFile truncate, err: %v", err)
		}
	}

	// Some platforms (windows) only support mmap()'ing at an
	// allocation granularity that's != to a page size, so
	// calculate the actual offset/nbytes to use.
	begOffsetActual := pageOffset(offset, int64(AllocationGranularity))
	begOffsetDelta := int(offset - begOffsetActual)
	nbytesActual := nbytes + begOffsetDelta

	mm, err := mmap.MapRegion(osFile, nbytesActual, mmap.RDWR, 0, begOffsetActual)
	if err != nil {
		return fmt.Errorf("unaligned: serializeToFile mmap.MapRegion(), err: %v", err)
	}

	_, err = serialize(src, mm[begOffsetDelta:begOffsetDelta+nbytes])
	if err == nil {
		err = mm.Flush()
		if err != nil {
			err = fmt.Errorf("unaligned: serializeToFile flush, err: %v", err)
		}
	}

	errUnmap := mm.Unmap()
	if err != nil {
		return err
	}
	if errUnmap != nil {
		return fmt.Errorf("unaligned: serializeToFile unmap, err: %v", errUnmap)
	}

	return nil
}

// pageOffset returns the start of the page that holds pos.
func pageOffset(pos, pageSize int64) int64 {
	return pos - pos%pageSize
}
