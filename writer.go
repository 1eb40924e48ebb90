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
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchbase/ghistogram"
)

// WriterOptions allows applications to specify config settings.
type WriterOptions struct {
	Debug int // Higher means more logging, when Log != nil.

	// Log is a callback invoked when the Writer needs to log a debug
	// message.  Optional, may be nil.
	Log func(format string, a ...interface{}) `json:"-"`
}

// DefaultWriterOptions are the default configuration options.
var DefaultWriterOptions = WriterOptions{
	Debug: 0,
	Log:   nil,
}

// A Writer serializes words like the package level funcs, while
// tracking stats and histograms of its calls.  A Writer is safe for
// concurrent use as long as concurrent calls are given disjoint
// destinations.
type Writer struct {
	options WriterOptions

	stats WriterStats

	m          sync.Mutex // Protects the fields that follow.
	histograms ghistogram.Histograms
}

// WriterStats represents stats for a Writer.  All fields are uint64
// and are updated atomically.
type WriterStats struct {
	TotSerializeBeg     uint64
	TotSerializeEnd     uint64
	TotSerializeErr     uint64
	TotSerializeZeroLen uint64

	TotSerializeWords      uint64
	TotSerializeBytes      uint64
	TotSerializeMisaligned uint64

	TotSerializeFileBeg uint64
	TotSerializeFileEnd uint64
	TotSerializeFileErr uint64
}

// NewWriter returns a new Writer instance.
func NewWriter(options WriterOptions) *Writer {
	histograms := make(ghistogram.Histograms)
	histograms["SerializeWords"] =
		ghistogram.NewNamedHistogram("SerializeWords", 10, 4, 4)
	histograms["SerializeAlignPhase"] =
		ghistogram.NewNamedHistogram("SerializeAlignPhase", WordSize, 1, 0)
	histograms["SerializeUsecs"] =
		ghistogram.NewNamedHistogram("SerializeUsecs", 10, 1, 2)
	histograms["SerializeFileUsecs"] =
		ghistogram.NewNamedHistogram("SerializeFileUsecs", 10, 10, 4)

	return &Writer{
		options:    options,
		histograms: histograms,
	}
}

// Serialize is the stats tracking version of the package level
// Serialize().
func (w *Writer) Serialize(src []uint64, dest []byte) (int, error) {
	atomic.AddUint64(&w.stats.TotSerializeBeg, 1)

	startTime := time.Now()

	n, err := Serialize(src, dest)
	if err != nil {
		atomic.AddUint64(&w.stats.TotSerializeErr, 1)
		w.Logf("unaligned: Writer.Serialize, err: %v", err)
		return 0, err
	}

	atomic.AddUint64(&w.stats.TotSerializeWords, uint64(len(src)))
	atomic.AddUint64(&w.stats.TotSerializeBytes, uint64(n))

	phase := alignPhase(dest)
	if len(src) == 0 {
		atomic.AddUint64(&w.stats.TotSerializeZeroLen, 1)
	} else if phase != 0 {
		atomic.AddUint64(&w.stats.TotSerializeMisaligned, 1)
	}

	w.m.Lock()
	w.histograms["SerializeWords"].Add(uint64(len(src)), 1)
	if len(src) > 0 {
		w.histograms["SerializeAlignPhase"].Add(uint64(phase), 1)
	}
	w.histograms["SerializeUsecs"].Add(
		uint64(time.Since(startTime).Nanoseconds()/1000), 1)
	w.m.Unlock()

	atomic.AddUint64(&w.stats.TotSerializeEnd, 1)

	return n, nil
}

// SerializeAt is the stats tracking version of the package level
// SerializeAt().
func (w *Writer) SerializeAt(src []uint64, buf []byte, offset int) (int, error) {
	if offset < 0 || offset > len(buf) {
		atomic.AddUint64(&w.stats.TotSerializeErr, 1)
		err := fmt.Errorf("unaligned: offset %d, buf len %d: %w",
			offset, len(buf), ErrBadOffset)
		w.Logf("unaligned: Writer.SerializeAt, err: %v", err)
		return 0, err
	}

	return w.Serialize(src, buf[offset:])
}

// SerializeToFile is the stats tracking version of the package level
// SerializeToFile().
func (w *Writer) SerializeToFile(f File, offset int64, src []uint64) error {
	atomic.AddUint64(&w.stats.TotSerializeFileBeg, 1)

	startTime := time.Now()

	err := serializeToFile(f, offset, src, w.Serialize)
	if err != nil {
		atomic.AddUint64(&w.stats.TotSerializeFileErr, 1)
		w.Logf("unaligned: Writer.SerializeToFile, offset: %d, err: %v",
			offset, err)
		return err
	}

	w.m.Lock()
	w.histograms["SerializeFileUsecs"].Add(
		uint64(time.Since(startTime).Nanoseconds()/1000), 1)
	w.m.Unlock()

	atomic.AddUint64(&w.stats.TotSerializeFileEnd, 1)

	return nil
}

// Stats returns a copy of the current stats for this Writer.
func (w *Writer) Stats() *WriterStats {
	rv := &WriterStats{}
	w.stats.AtomicCopyTo(rv)
	return rv
}

// Histograms returns a snapshot of the histograms for this Writer.
func (w *Writer) Histograms() ghistogram.Histograms {
	histogramsSnapshot := make(ghistogram.Histograms)

	w.m.Lock()
	histogramsSnapshot.AddAll(w.histograms)
	w.m.Unlock()

	return histogramsSnapshot
}

// Logf invokes the user's configured Log callback, if any, if the
// debug levels are met.
func (w *Writer) Logf(format string, a ...interface{}) {
	if w.options.Debug > 0 &&
		w.options.Log != nil {
		w.options.Log(format, a...)
	}
}
