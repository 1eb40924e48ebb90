// Copyright © 2017 Couchbase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/couchbase/unaligned"
	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dumps the words serialized in a file",
	Long: `Reads words back in native byte order starting at --offset
and prints one per line, or in JSON with --json.  A --count of 0 dumps
every whole word up to the end of the file.
	./unalignedScope dump <path_to_file> --offset 4 [--json] [--hex]`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("Exactly one file path is required!")
		}
		if dumpOffset < 0 || dumpCount < 0 {
			return fmt.Errorf("--offset and --count must not be negative")
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeDump(cmd.OutOrStdout(), args[0])
	},
}

var dumpOffset int64
var dumpCount int
var jsonFormat bool
var inHex bool

type dumpResult struct {
	File   string   `json:"file"`
	Offset int64    `json:"offset"`
	Endian string   `json:"endian"`
	Words  []uint64 `json:"words"`
}

func invokeDump(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Open() failed, err: %v", err)
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return fmt.Errorf("Stat() failed, err: %v", err)
	}

	count := dumpCount
	if count == 0 && finfo.Size() > dumpOffset {
		count = int((finfo.Size() - dumpOffset) / unaligned.WordSize)
	}

	buf := make([]byte, unaligned.SerializedSize(count))
	_, err = f.ReadAt(buf, dumpOffset)
	if err != nil {
		return fmt.Errorf("ReadAt() of %d words at offset %d failed, err: %v",
			count, dumpOffset, err)
	}

	words := make([]uint64, count)
	for i := range words {
		words[i] = unaligned.NativeEndian.Uint64(buf[i*unaligned.WordSize:])
	}

	if jsonFormat {
		jBuf, err := json.Marshal(dumpResult{
			File:   path,
			Offset: dumpOffset,
			Endian: unaligned.Endian(),
			Words:  words,
		})
		if err != nil {
			return fmt.Errorf("Json-Marshal() failed!, err: %v", err)
		}
		fmt.Fprintln(out, string(jBuf))
		return nil
	}

	for i, word := range words {
		if inHex {
			fmt.Fprintf(out, "%d: 0x%016x\n", i, word)
		} else {
			fmt.Fprintf(out, "%d: %d\n", i, word)
		}
	}

	return nil
}

func init() {
	RootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().Int64Var(&dumpOffset, "offset", 4,
		"Byte offset in the file of the first word")
	dumpCmd.Flags().IntVar(&dumpCount, "count", 0,
		"Number of words to dump, 0 for all")
	dumpCmd.Flags().BoolVar(&jsonFormat, "json", false,
		"Emits output in JSON")
	dumpCmd.Flags().BoolVar(&inHex, "hex", false,
		"Emits words in hex")
}
