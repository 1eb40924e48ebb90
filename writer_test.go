//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package unaligned

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestWriterSerialize(t *testing.T) {
	w := NewWriter(DefaultWriterOptions)

	src := testWords(5)
	buf := make([]byte, 64)

	for offset := 0; offset < WordSize; offset++ {
		n, err := w.SerializeAt(src, buf, offset)
		if err != nil {
			t.Fatalf("offset: %d, expected SerializeAt to work, err: %v", offset, err)
		}
		if n != 40 {
			t.Errorf("expected 40 bytes, got: %d", n)
		}
		got := readWords(buf[offset:], len(src))
		for i := range src {
			if got[i] != src[i] {
				t.Errorf("offset: %d, i: %d, mismatch", offset, i)
			}
		}
	}

	_, err := w.Serialize(nil, buf)
	if err != nil {
		t.Errorf("expected zero len to work, err: %v", err)
	}

	stats := w.Stats()
	if stats.TotSerializeBeg != 9 || stats.TotSerializeEnd != 9 {
		t.Errorf("expected 9 beg/end, got: %+v", stats)
	}
	if stats.TotSerializeErr != 0 {
		t.Errorf("expected no errs, got: %+v", stats)
	}
	if stats.TotSerializeZeroLen != 1 {
		t.Errorf("expected 1 zero len, got: %+v", stats)
	}
	if stats.TotSerializeWords != 40 {
		t.Errorf("expected 40 words, got: %+v", stats)
	}
	if stats.TotSerializeBytes != 320 {
		t.Errorf("expected 320 bytes, got: %+v", stats)
	}
	if alignPhaseKnown && alignPhase(buf) == 0 &&
		stats.TotSerializeMisaligned != 7 {
		t.Errorf("expected 7 misaligned, got: %+v", stats)
	}

	histograms := w.Histograms()
	if histograms["SerializeWords"].TotCount != 9 {
		t.Errorf("expected 9 SerializeWords, got: %d",
			histograms["SerializeWords"].TotCount)
	}
	if histograms["SerializeAlignPhase"].TotCount != 8 {
		t.Errorf("expected 8 SerializeAlignPhase, got: %d",
			histograms["SerializeAlignPhase"].TotCount)
	}
	if histograms["SerializeUsecs"].TotCount != 9 {
		t.Errorf("expected 9 SerializeUsecs, got: %d",
			histograms["SerializeUsecs"].TotCount)
	}
}

func TestWriterErrors(t *testing.T) {
	var m sync.Mutex
	var logged []string

	w := NewWriter(WriterOptions{
		Debug: 1,
		Log: func(format string, a ...interface{}) {
			m.Lock()
			logged = append(logged, fmt.Sprintf(format, a...))
			m.Unlock()
		},
	})

	src := testWords(2)

	_, err := w.Serialize(src, make([]byte, 15))
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got: %v", err)
	}

	_, err = w.SerializeAt(src, make([]byte, 15), 16)
	if !errors.Is(err, ErrBadOffset) {
		t.Errorf("expected ErrBadOffset, got: %v", err)
	}

	stats := w.Stats()
	if stats.TotSerializeErr != 2 {
		t.Errorf("expected 2 errs, got: %+v", stats)
	}
	if stats.TotSerializeEnd != 0 {
		t.Errorf("expected 0 ends, got: %+v", stats)
	}

	m.Lock()
	if len(logged) != 2 {
		t.Errorf("expected 2 log lines, got: %v", logged)
	}
	m.Unlock()
}

func TestWriterNoLogWithoutDebug(t *testing.T) {
	called := false

	w := NewWriter(WriterOptions{
		Log: func(format string, a ...interface{}) { called = true },
	})

	w.Serialize(testWords(1), nil)

	if called {
		t.Errorf("expected no log when Debug is 0")
	}
}

func TestWriterConcurrent(t *testing.T) {
	w := NewWriter(DefaultWriterOptions)

	src := testWords(16)
	n := SerializedSize(len(src))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			buf := make([]byte, n+WordSize)
			for i := 0; i < 100; i++ {
				w.SerializeAt(src, buf, (g+i)%WordSize)
			}
		}(g)
	}
	wg.Wait()

	stats := w.Stats()
	if stats.TotSerializeEnd != 1600 {
		t.Errorf("expected 1600 ends, got: %d", stats.TotSerializeEnd)
	}
	if stats.TotSerializeWords != 1600*16 {
		t.Errorf("expected %d words, got: %d", 1600*16, stats.TotSerializeWords)
	}
	if w.Histograms()["SerializeWords"].TotCount != 1600 {
		t.Errorf("expected 1600 SerializeWords")
	}
}

func TestWriterStatsToMap(t *testing.T) {
	w := NewWriter(DefaultWriterOptions)
	w.Serialize(testWords(3), make([]byte, 24))

	m := w.Stats().ToMap()
	if m["TotSerializeWords"] != 3 {
		t.Errorf("expected TotSerializeWords 3, got: %v", m)
	}
	if _, exists := m["TotSerializeFileBeg"]; !exists {
		t.Errorf("expected every stat in map, got: %v", m)
	}
}
