//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

//go:build !windows
// +build !windows

package unaligned

import (
	"os"
)

// AllocationGranularity sets the granularity of allocation.  Some
// operating systems require mmap() offsets to occur on particular
// boundaries.
var AllocationGranularity = os.Getpagesize()
