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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mooreml/moretran/internal/examples"
	"github.com/mooreml/moretran/internal/validator"
)

var corpusPath string

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the sentence-pair corpus",
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := examples.New(corpusPath, exampleOptions(), logger)
		ex.Load()

		fmt.Printf("Sentence pairs: %d\n", ex.Size())
		fmt.Printf("Skipped lines:  %d\n", ex.Skipped())
		return nil
	},
}

var corpusVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Flag corpus records whose source side is not in the source language",
	Long: `Run every corpus record's source text through language detection and
report records that do not look like the configured source language.
Such records produce unreliable lexical-overlap matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := examples.New(corpusPath, exampleOptions(), logger)
		val := validator.New(viper.GetString("source_lang"))

		flagged := 0
		total := 0
		ex.Each(func(source, target, provenance string) {
			total++
			if err := val.Check(source); err != nil {
				flagged++
				fmt.Fprintf(os.Stderr, "record %d (%s): %v: %q\n", total, provenance, err, source)
			}
		})

		fmt.Printf("Checked %d records, flagged %d\n", total, flagged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
	corpusCmd.AddCommand(corpusVerifyCmd)

	corpusCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "Corpus JSONL path (required)")
	corpusCmd.MarkPersistentFlagRequired("corpus")
}
