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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mooreml/moretran/internal/store"
)

var (
	pairsDBPath        string
	pairsMinConfidence float64
	pairsExportFile    string
	pairsNearThreshold float64
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Manage persisted translation pairs",
	Long:  `List, inspect, export, and clear the SQLite store of generated pairs.`,
}

var pairsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(databasePath(pairsDBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		pairs, err := db.ListPairs(context.Background(), pairsMinConfidence)
		if err != nil {
			return fmt.Errorf("failed to list pairs: %w", err)
		}

		if len(pairs) == 0 {
			fmt.Println("No pairs in store.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tORIGIN\tCONF\tCREATED\tSOURCE\tTARGET")
		for _, p := range pairs {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
				p.ID[:8], p.Origin, p.Confidence,
				p.CreatedAt.Format("2006-01-02 15:04"),
				snippet(p.SourceText), snippet(p.TargetText))
		}
		return w.Flush()
	},
}

var pairsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pair store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(databasePath(pairsDBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total pairs:     %d\n", stats.TotalDecisions)
		fmt.Printf("Mean confidence: %.2f\n", stats.AvgConfidence)
		fmt.Printf("Need review:     %d\n", stats.Reviewable)
		for origin, count := range stats.ByOrigin {
			fmt.Printf("  %-12s %d\n", origin+":", count)
		}
		return nil
	},
}

var pairsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pairs as training-data JSONL",
	Long: `Write pairs at or above the confidence threshold as JSONL records
ready for MT training: {"source": ..., "target": ..., "confidence": ...}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(databasePath(pairsDBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		pairs, err := db.ListPairs(context.Background(), pairsMinConfidence)
		if err != nil {
			return fmt.Errorf("failed to list pairs: %w", err)
		}

		out := os.Stdout
		if pairsExportFile != "" {
			f, err := os.Create(pairsExportFile)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			out = f
		}

		type record struct {
			Source     string  `json:"source"`
			Target     string  `json:"target"`
			Origin     string  `json:"origin"`
			Confidence float64 `json:"confidence"`
		}

		w := bufio.NewWriter(out)
		enc := json.NewEncoder(w)
		for _, p := range pairs {
			rec := record{Source: p.SourceText, Target: p.TargetText, Origin: p.Origin, Confidence: p.Confidence}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to encode pair %s: %w", p.ID, err)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Exported %d pairs\n", len(pairs))
		return nil
	},
}

var pairsNearCmd = &cobra.Command{
	Use:   "near TEXT",
	Short: "Find pairs with a source similar to TEXT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(databasePath(pairsDBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		pairs, err := db.NearPairs(context.Background(), args[0], pairsNearThreshold)
		if err != nil {
			return fmt.Errorf("failed to search pairs: %w", err)
		}

		if len(pairs) == 0 {
			fmt.Println("No similar pairs found.")
			return nil
		}
		for _, p := range pairs {
			fmt.Printf("%.2f  %s → %s\n", p.Confidence, p.SourceText, p.TargetText)
		}
		return nil
	},
}

var pairsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all persisted pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(databasePath(pairsDBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearPairs(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear pairs: %w", err)
		}
		fmt.Printf("Deleted %d pairs\n", n)
		return nil
	},
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(pairsCmd)
	pairsCmd.AddCommand(pairsListCmd)
	pairsCmd.AddCommand(pairsStatsCmd)
	pairsCmd.AddCommand(pairsExportCmd)
	pairsCmd.AddCommand(pairsNearCmd)
	pairsCmd.AddCommand(pairsClearCmd)

	pairsCmd.PersistentFlags().StringVar(&pairsDBPath, "db", "", "Database path (default from config)")
	pairsCmd.PersistentFlags().Float64Var(&pairsMinConfidence, "min-confidence", 0, "Minimum composite confidence")
	pairsExportCmd.Flags().StringVarP(&pairsExportFile, "output", "o", "", "Export file (default stdout)")
	pairsNearCmd.Flags().Float64Var(&pairsNearThreshold, "threshold", 0.8, "Similarity threshold (0-1)")
}
