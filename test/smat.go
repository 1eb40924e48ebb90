//  Copyright 2016-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package test

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/couchbase/unaligned"

	"github.com/mschoch/smat"
)

// Fuzz using state machine driven by byte stream.
func Fuzz(data []byte) int {
	return smat.Fuzz(&context{}, smat.ActionID('S'), smat.ActionID('T'),
		actionMap, data)
}

const maxWords = 200
const maxOffset = 3 * unaligned.WordSize

// Bytes around the serialized words are pre-filled with this, so
// stray writes are visible.
const guardByte = 0xa5

type context struct {
	src    []uint64
	offset int
	seed   uint64

	w      *unaligned.Writer // Initialized in setupFunc().
	dir    string
	file   *os.File
	stats  unaligned.WriterStats // Last seen Writer stats.
	fileAt int64
}

// ------------------------------------------------------------------

var actionMap = smat.ActionMap{
	smat.ActionID('>'): delta(func(c *context) { c.offset++ }),
	smat.ActionID('<'): delta(func(c *context) { c.offset-- }),
	smat.ActionID('+'): opGrowFunc,
	smat.ActionID('-'): opShrinkFunc,
	smat.ActionID('v'): opMutateFunc,
	smat.ActionID('s'): opSerializeToFunc,
	smat.ActionID('c'): opSerializeFunc,
	smat.ActionID('x'): opShortBufferFunc,
	smat.ActionID('w'): opWriterFunc,
	smat.ActionID('f'): opFileFunc,
}

// Built from a fixed order so the byte encoding of an action
// sequence is stable across runs.
var runningActions = []smat.ActionID{
	'>', '<', '+', '-', 'v', 's', 'c', 'x', 'w', 'f',
}

func init() {
	actionMap[smat.ActionID('S')] = setupFunc
	actionMap[smat.ActionID('T')] = teardownFunc
}

// We only have one state: running.
func running(next byte) smat.ActionID {
	return runningActions[int(next)%len(runningActions)]
}

// Creates an action func based on a callback, used for moving the
// offset, which wraps around to stay in [0, maxOffset).
func delta(cb func(c *context)) func(ctx smat.Context) (next smat.State, err error) {
	return func(ctx smat.Context) (next smat.State, err error) {
		c := ctx.(*context)
		cb(c)
		if c.offset < 0 {
			c.offset = maxOffset - 1
		}
		if c.offset >= maxOffset {
			c.offset = 0
		}
		return running, nil
	}
}

// ------------------------------------------------------------------

func setupFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)

	c.dir, err = ioutil.TempDir("", "unalignedSMAT")
	if err != nil {
		return nil, err
	}

	c.file, err = os.OpenFile(filepath.Join(c.dir, "smat.words"),
		os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	c.w = unaligned.NewWriter(unaligned.DefaultWriterOptions)
	c.seed = 0x9e3779b97f4a7c15

	return running, nil
}

func teardownFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	if c.file != nil {
		c.file.Close()
	}
	if c.dir != "" {
		os.RemoveAll(c.dir)
	}

	return nil, nil
}

// ------------------------------------------------------------------

func (c *context) nextWord() uint64 {
	c.seed = c.seed*6364136223846793005 + 1442695040888963407
	return c.seed
}

func opGrowFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	if len(c.src) < maxWords {
		c.src = append(c.src, c.nextWord())
	}
	return running, nil
}

func opShrinkFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	if len(c.src) > 0 {
		c.src = c.src[:len(c.src)-1]
	}
	return running, nil
}

func opMutateFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	for i := range c.src {
		if c.nextWord()&1 == 0 {
			c.src[i] = c.nextWord()
		}
	}
	return running, nil
}

// ------------------------------------------------------------------

// guardedBuf returns a buffer with exactly enough room for the words
// at c.offset plus a trailing guard word.
func (c *context) guardedBuf() []byte {
	n := c.offset + unaligned.SerializedSize(len(c.src)) + unaligned.WordSize
	return bytes.Repeat([]byte{guardByte}, n)
}

// verify checks buf holds c.src at c.offset with the guard bytes
// around it intact.
func (c *context) verify(buf []byte) error {
	end := c.offset + unaligned.SerializedSize(len(c.src))

	for i := 0; i < c.offset; i++ {
		if buf[i] != guardByte {
			return fmt.Errorf("prefix byte %d overwritten, offset: %d", i, c.offset)
		}
	}

	for i, word := range c.src {
		got := unaligned.NativeEndian.Uint64(buf[c.offset+i*unaligned.WordSize:])
		if got != word {
			return fmt.Errorf("word %d mismatch, offset: %d, got: %x, expected: %x",
				i, c.offset, got, word)
		}
	}

	for i := end; i < len(buf); i++ {
		if buf[i] != guardByte {
			return fmt.Errorf("suffix byte %d overwritten, offset: %d", i, c.offset)
		}
	}

	return nil
}

func opSerializeToFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	buf := c.guardedBuf()
	unaligned.SerializeTo(c.src, buf[c.offset:])
	return running, c.verify(buf)
}

func opSerializeFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	buf := c.guardedBuf()
	n, err := unaligned.SerializeAt(c.src, buf, c.offset)
	if err != nil {
		return nil, err
	}
	if n != unaligned.SerializedSize(len(c.src)) {
		return nil, fmt.Errorf("SerializeAt returned %d bytes", n)
	}
	return running, c.verify(buf)
}

func opShortBufferFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	if len(c.src) == 0 {
		return running, nil
	}

	buf := c.guardedBuf()
	short := buf[c.offset : c.offset+unaligned.SerializedSize(len(c.src))-1]

	_, err = unaligned.Serialize(c.src, short)
	if !errors.Is(err, unaligned.ErrShortBuffer) {
		return nil, fmt.Errorf("expected ErrShortBuffer, got: %v", err)
	}

	for i, b := range buf {
		if b != guardByte {
			return nil, fmt.Errorf("short buffer byte %d written", i)
		}
	}

	return running, nil
}

func opWriterFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	buf := c.guardedBuf()

	_, err = c.w.SerializeAt(c.src, buf, c.offset)
	if err != nil {
		return nil, err
	}

	err = c.checkStats()
	if err != nil {
		return nil, err
	}

	return running, c.verify(buf)
}

// checkStats ensures the Writer's counters only move forwards and
// account for the words of the last call.
func (c *context) checkStats() error {
	stats := c.w.Stats()

	if stats.TotSerializeEnd <= c.stats.TotSerializeEnd {
		return fmt.Errorf("TotSerializeEnd did not advance, %+v", stats)
	}
	if stats.TotSerializeWords-c.stats.TotSerializeWords != uint64(len(c.src)) {
		return fmt.Errorf("TotSerializeWords off, prev: %d, now: %d, len: %d",
			c.stats.TotSerializeWords, stats.TotSerializeWords, len(c.src))
	}
	if stats.TotSerializeErr != 0 {
		return fmt.Errorf("unexpected TotSerializeErr, %+v", stats)
	}

	c.stats = *stats

	return nil
}

func opFileFunc(ctx smat.Context) (next smat.State, err error) {
	c := ctx.(*context)
	if len(c.src) == 0 {
		return running, nil
	}

	// Walk across a page boundary over successive calls.
	c.fileAt = int64(unaligned.AllocationGranularity) - 64 + int64(c.offset)

	err = c.w.SerializeToFile(c.file, c.fileAt, c.src)
	if err != nil {
		return nil, err
	}

	err = c.checkStats()
	if err != nil {
		return nil, err
	}

	b := make([]byte, unaligned.SerializedSize(len(c.src)))
	_, err = c.file.ReadAt(b, c.fileAt)
	if err != nil {
		return nil, err
	}

	for i, word := range c.src {
		got := unaligned.NativeEndian.Uint64(b[i*unaligned.WordSize:])
		if got != word {
			return nil, fmt.Errorf("file word %d mismatch, at: %d", i, c.fileAt)
		}
	}

	return running, nil
}
