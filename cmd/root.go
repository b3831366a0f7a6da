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
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mooreml/moretran/internal/examples"
	"github.com/mooreml/moretran/internal/pipeline"
	"github.com/mooreml/moretran/internal/scorer"
)

var version = "0.1.0"

var (
	cfgFile string
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "moretran",
	Short: "Machine-translation training-pair generator for Mooré",
	Long: `moretran generates French→Mooré machine-translation training pairs by
combining a bilingual lexicon (TSV) with a sentence-pair corpus (JSONL),
arbitrating between dictionary-composed and corpus-retrieved candidates,
and scoring each winner with a reproducible composite confidence.

Use "moretran generate --help" for generation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./moretran.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("moretran")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MORETRAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("config loaded")
	}

	if lvl, err := zerolog.ParseLevel(viper.GetString("log_level")); err == nil {
		logger = logger.Level(lvl)
	}
}

// setDefaults registers all tuning constants so a config file only needs to
// list the values it overrides.
func setDefaults() {
	viper.SetDefault("source_lang", "fr")
	viper.SetDefault("target_lang", "mos")
	viper.SetDefault("db", "./data/moretran.db")

	def := scorer.DefaultConfig()
	viper.SetDefault("scorer.unknown_penalty", def.UnknownPenalty)
	viper.SetDefault("scorer.length_ratio_threshold", def.LengthRatioThreshold)
	viper.SetDefault("scorer.length_penalty", def.LengthPenalty)
	viper.SetDefault("scorer.multi_candidate_bonus", def.MultiCandidateBonus)

	viper.SetDefault("examples.min_similarity", examples.DefaultMinSimilarity)
	viper.SetDefault("examples.max_matches", examples.DefaultMaxMatches)

	viper.SetDefault("pipeline.workers", pipeline.DefaultWorkers)
}

// scorerConfig reads the scoring heuristics from configuration.
func scorerConfig() scorer.Config {
	var cfg scorer.Config
	if err := viper.UnmarshalKey("scorer", &cfg); err != nil {
		return scorer.DefaultConfig()
	}
	return cfg
}

// databasePath resolves the database location: an explicit --db flag wins
// over the config file and environment.
func databasePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("db")
}

// exampleOptions reads the retrieval cutoffs from configuration.
func exampleOptions() examples.Options {
	return examples.Options{
		MinSimilarity: viper.GetFloat64("examples.min_similarity"),
		MaxMatches:    viper.GetInt("examples.max_matches"),
	}
}
