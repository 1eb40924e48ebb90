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

	"github.com/couchbase/unaligned"
	"github.com/spf13/cobra"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Serializes 64 words into a scratch buffer at a misaligned offset",
	Long: `Allocates 64 words and a 1024 byte scratch buffer, serializes
the words at scratch[--offset:] and verifies them by reading back.
	./unalignedScope demo [--offset 4]`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if demoOffset < 0 ||
			demoOffset > demoScratchSize-unaligned.SerializedSize(demoWords) {
			return fmt.Errorf("--offset must be in [0, %d]",
				demoScratchSize-unaligned.SerializedSize(demoWords))
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeDemo(cmd)
	},
}

const demoWords = 64
const demoScratchSize = 1024

var demoOffset int

func invokeDemo(cmd *cobra.Command) error {
	words := genWords(demoWords, 0x0101010101010101, 0x0102030405060708)
	scratch := make([]byte, demoScratchSize)

	unaligned.SerializeTo(words, scratch[demoOffset:])

	for i, word := range words {
		got := unaligned.NativeEndian.Uint64(
			scratch[demoOffset+i*unaligned.WordSize:])
		if got != word {
			return fmt.Errorf("word %d mismatch, got: %x, expected: %x",
				i, got, word)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"serialized %d words at offset %d (%s endian), verified\n",
		len(words), demoOffset, unaligned.Endian())

	return nil
}

func init() {
	RootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVar(&demoOffset, "offset", 4,
		"Byte offset in the scratch buffer of the first word")
}
