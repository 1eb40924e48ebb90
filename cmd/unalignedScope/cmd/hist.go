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
	"sort"

	"github.com/couchbase/unaligned"
	"github.com/spf13/cobra"
)

// histCmd represents the hist command
var histCmd = &cobra.Command{
	Use:   "hist",
	Short: "Generates Writer histograms across every offset phase",
	Long: `This command serializes --count words at each offset 0..7 of
a scratch buffer with a Writer, then prints its stats and histograms.
	./unalignedScope hist [--count 64]`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if histCount < 0 {
			return fmt.Errorf("--count must not be negative")
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeHist(cmd)
	},
}

var histCount int

func invokeHist(cmd *cobra.Command) error {
	w := newWriter()

	words := genWords(histCount, 1, 1)
	buf := make([]byte, unaligned.SerializedSize(histCount)+unaligned.WordSize)

	for offset := 0; offset < unaligned.WordSize; offset++ {
		_, err := w.SerializeAt(words, buf, offset)
		if err != nil {
			return fmt.Errorf("SerializeAt() failed, err: %v", err)
		}
	}

	out := cmd.OutOrStdout()

	jBuf, err := json.Marshal(w.Stats().ToMap())
	if err != nil {
		return fmt.Errorf("Json-Marshal() failed!, err: %v", err)
	}
	fmt.Fprintln(out, string(jBuf))

	histograms := w.Histograms()

	names := make([]string, 0, len(histograms))
	for name := range histograms {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "%s\n", name)
		fmt.Fprintln(out, histograms[name].EmitGraph(nil, nil).String())
	}

	return nil
}

func init() {
	RootCmd.AddCommand(histCmd)

	histCmd.Flags().IntVar(&histCount, "count", 64,
		"Number of words serialized per offset")
}
