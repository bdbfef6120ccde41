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
	"strconv"
	"strings"

	"github.com/penny-vault/pv-geneva/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	fxDate      string
	fxPortfolio string
)

func init() {
	fxCmd.Flags().StringVarP(&fxDate, "date", "d", "", "Date of the tax lot report to take rates from, specified as YYYY-MM-DD")
	fxCmd.Flags().StringVarP(&fxPortfolio, "portfolio", "p", "", "Prefer rates of this portfolio")
	fxCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(fxCmd)
}

// resolveRate looks up the rate in the table built from the tax lot report
// of date, logging every rate the table holds
func resolveRate(manager *data.Manager, date, portfolio, from, to string) (float64, error) {
	table, err := manager.FxTable(date)
	if err != nil {
		return 0, err
	}

	for _, entry := range table.Entries() {
		log.Debug().Str("Portfolio", entry.Portfolio).Str("Currency", entry.Currency).
			Str("TargetCurrency", entry.TargetCurrency).Float64("ExchangeRate", entry.ExchangeRate).
			Msg("available rate")
	}

	return table.Rate(date, portfolio, from, to)
}

var fxCmd = &cobra.Command{
	Use:   "fx FROM TO",
	Short: "Print the rate converting one unit of FROM into TO",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from := strings.ToUpper(args[0])
		to := strings.ToUpper(args[1])

		manager, err := newManager(false)
		if err != nil {
			return err
		}

		rate, err := resolveRate(manager, fxDate, fxPortfolio, from, to)
		if err != nil {
			log.Error().Err(err).Str("Date", fxDate).Str("Portfolio", fxPortfolio).Str("Currency", from).Str("TargetCurrency", to).Msg("no exchange rate")
			return err
		}

		fmt.Println(strconv.FormatFloat(rate, 'f', -1, 64))
		return nil
	},
}
