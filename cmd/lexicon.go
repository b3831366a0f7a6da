/*
Copyright © 2025 The moretran authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mooreml/moretran/internal/lexicon"
)

var lexiconPath string

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect the bilingual lexicon table",
}

var lexiconStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lexicon table statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		lex := lexicon.New(lexiconPath, logger)
		lex.Load()

		fmt.Printf("Source keys:     %d\n", lex.Size())
		fmt.Printf("Skipped records: %d\n", lex.Skipped())
		return nil
	},
}

var lexiconLookupCmd = &cobra.Command{
	Use:   "lookup TOKEN...",
	Short: "Resolve tokens against the lexicon",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lex := lexicon.New(lexiconPath, logger)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOKEN\tTARGET\tPOS\tSCORE")
		for _, token := range args {
			for _, e := range lex.Lookup(token) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", token, e.Target, e.PartOfSpeech, e.Score)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
	lexiconCmd.AddCommand(lexiconStatsCmd)
	lexiconCmd.AddCommand(lexiconLookupCmd)

	lexiconCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "Lexicon TSV path (required)")
	lexiconCmd.MarkPersistentFlagRequired("lexicon")
}
