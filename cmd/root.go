// Copyright 2021-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/google/uuid"
	"github.com/penny-vault/pv-geneva/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runID tags every log line and export header of one invocation
var runID string

func init() {
	// Geneva report drop
	viper.BindEnv("data.directory", "GENEVA_DATA_DIR")
	rootCmd.PersistentFlags().String("data-dir", ".", "Directory containing the Geneva report files")
	viper.BindPFlag("data.directory", rootCmd.PersistentFlags().Lookup("data-dir"))

	viper.BindEnv("data.encoding", "GENEVA_ENCODING")
	rootCmd.PersistentFlags().String("encoding", "utf-16", "Text encoding of the report files")
	viper.BindPFlag("data.encoding", rootCmd.PersistentFlags().Lookup("encoding"))

	rootCmd.PersistentFlags().String("delimiter", "tab", "Cell delimiter of the report files: `tab`, `comma` or a single character")
	viper.BindPFlag("data.delimiter", rootCmd.PersistentFlags().Lookup("delimiter"))

	rootCmd.PersistentFlags().Int("cache-size", 3, "Number of parsed reports kept in memory")
	viper.BindPFlag("data.cache_size", rootCmd.PersistentFlags().Lookup("cache-size"))

	// Reference data
	viper.BindEnv("reference.file", "GENEVA_REFERENCE_FILE")
	rootCmd.PersistentFlags().String("reference", "", "TOML file with the security master and portfolio names")
	viper.BindPFlag("reference.file", rootCmd.PersistentFlags().Lookup("reference"))

	// Output
	rootCmd.PersistentFlags().StringP("output-dir", "o", ".", "Directory exports are written to")
	viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output-dir"))

	rootCmd.PersistentFlags().String("output-format", "csv", "Export format, one of: `csv` or `json`")
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output-format"))

	rootCmd.PersistentFlags().Bool("compress", false, "Compress exports with lz4")
	viper.BindPFlag("output.compress", rootCmd.PersistentFlags().Lookup("compress"))

	// Logging configuration
	viper.BindEnv("log.level", "GENEVA_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "GENEVA_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "GENEVA_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", true, "Format logs for a terminal")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:          common.ProgramName,
	Version:      common.CurrentVersion.String(),
	Short:        "Convert Geneva reports into FactSet uploads",
	Long:         `Reads the multipart tax lot, cash ledger, dividend receivable and purchase and sales reports exported by Geneva, consolidates them and writes CSV or JSON exports including FactSet position and transaction uploads.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		runID = uuid.New().String()
		log.Logger = log.With().Str("RunID", runID).Logger()
		if fn := viper.ConfigFileUsed(); fn != "" {
			log.Info().Str("FileName", fn).Msg("loaded config file")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
