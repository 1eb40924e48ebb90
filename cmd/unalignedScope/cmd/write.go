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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Serializes generated words into a file at an offset",
	Long: `Serializes --count words (--start, --start+--step, ...) in
native byte order into the file, starting at --offset, which need not
be a multiple of 8.  The file is created or grown as needed.
	./unalignedScope write <path_to_file> --offset 4 --count 64`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("Exactly one file path is required!")
		}
		if writeCount < 0 {
			return fmt.Errorf("--count must not be negative")
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeWrite(cmd, args[0])
	},
}

var writeOffset int64
var writeCount int
var writeStart uint64
var writeStep uint64

func invokeWrite(cmd *cobra.Command, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("OpenFile() failed, err: %v", err)
	}
	defer f.Close()

	words := genWords(writeCount, writeStart, writeStep)

	w := newWriter()

	err = w.SerializeToFile(f, writeOffset, words)
	if err != nil {
		return fmt.Errorf("SerializeToFile() failed, err: %v", err)
	}

	stats := w.Stats()

	fmt.Fprintf(cmd.OutOrStdout(),
		"wrote %d words (%d bytes) at offset %d of %s\n",
		stats.TotSerializeWords, stats.TotSerializeBytes, writeOffset, path)

	return nil
}

func init() {
	RootCmd.AddCommand(writeCmd)

	writeCmd.Flags().Int64Var(&writeOffset, "offset", 4,
		"Byte offset in the file of the first word")
	writeCmd.Flags().IntVar(&writeCount, "count", 64,
		"Number of words to write")
	writeCmd.Flags().Uint64Var(&writeStart, "start", 1,
		"Value of the first word")
	writeCmd.Flags().Uint64Var(&writeStep, "step", 1,
		"Difference between consecutive words")
}
