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

	"github.com/couchbase/unaligned"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "unalignedScope",
	Short: "unalignedScope writes and inspects serialized 64-bit words",
	Long: `unalignedScope serializes 64-bit words in native byte order
at any (possibly misaligned) offset of a file or scratch buffer, and
reads them back for inspection.
	./unalignedScope <command> [sub-command] [flags]`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Logs Writer debug messages to stderr")
}

// newWriter returns a Writer configured from the persistent flags.
func newWriter() *unaligned.Writer {
	options := unaligned.DefaultWriterOptions
	if verbose {
		options.Debug = 1
		options.Log = func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}
	return unaligned.NewWriter(options)
}

// genWords returns count words, start, start+step, start+2*step, ...
func genWords(count int, start, step uint64) []uint64 {
	rv := make([]uint64, count)
	for i := range rv {
		rv[i] = start + uint64(i)*step
	}
	return rv
}
