//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package unaligned

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// NativeEndian is the byte order of the executing platform, which is
// the byte order serialized words are written in.
var NativeEndian binary.ByteOrder = binary.LittleEndian

func init() {
	if cpu.IsBigEndian {
		NativeEndian = binary.BigEndian
	}
}

// Endian returns "big" or "little".
func Endian() string {
	if cpu.IsBigEndian {
		return "big"
	}
	return "little"
}
