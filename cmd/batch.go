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
	"sort"

	"github.com/penny-vault/pv-geneva/common"
	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/export"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var ErrBatchFailed = errors.New("one or more exports failed")

var (
	batchFrom       string
	batchTo         string
	batchPortfolios []string
	batchReports    []string
)

func init() {
	batchCmd.Flags().StringVar(&batchFrom, "from", "", "First report date specified as YYYY-MM-DD; unbounded when blank")
	batchCmd.Flags().StringVar(&batchTo, "to", "", "Last report date specified as YYYY-MM-DD; unbounded when blank")
	batchCmd.Flags().StringSliceVarP(&batchPortfolios, "portfolio", "p", []string{}, "Portfolios to export; all portfolios in one file when blank")
	batchCmd.Flags().StringSliceVarP(&batchReports, "report", "r", exportOrder, "Reports to export")
	rootCmd.AddCommand(batchCmd)
}

type batchUnit struct {
	date      string
	portfolio string
	report    string
}

// runBatch exports every unit and returns how many failed. Units arrive
// ordered by date so the reports of a finished date are dropped from the
// cache before the next date is read.
func runBatch(manager *data.Manager, opts export.Options, units []batchUnit) int {
	failed := 0
	for idx, unit := range units {
		if idx > 0 && units[idx-1].date != unit.date {
			manager.Purge()
		}

		subLog := log.With().Str("Report", unit.report).Str("Date", unit.date).Str("Portfolio", unit.portfolio).Logger()
		fn, err := exporters[unit.report].exportDate(manager, opts, unit.date, unit.portfolio)
		if err != nil {
			failed++
			subLog.Error().Err(err).Msg("export failed; continuing with next")
			continue
		}

		subLog.Info().Str("FileName", fn).Msg("exported")
		fmt.Println(fn)
	}
	return failed
}

// batchUnits expands the requested reports into one unit per report date
// found in the data directory and portfolio, ordered by date
func batchUnits(dir string, reports, portfolios []string) ([]batchUnit, error) {
	var units []batchUnit
	for _, report := range reports {
		dates, err := data.AvailableDates(dir, exporters[report].sourceKind(), batchFrom, batchTo)
		if err != nil {
			return nil, err
		}
		if len(dates) == 0 {
			log.Warn().Str("Report", report).Str("From", batchFrom).Str("To", batchTo).Msg("no report files in range")
		}

		for _, date := range dates {
			for _, portfolio := range portfolios {
				units = append(units, batchUnit{date: date, portfolio: portfolio, report: report})
			}
		}
	}

	// stable so that reports of one date keep their requested order
	sort.SliceStable(units, func(i, j int) bool { return units[i].date < units[j].date })
	return units, nil
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Export several reports for a range of dates",
	Long:  `Exports every requested report for each date in the range that has a report file. A failed export is logged and the batch continues; the command exits non-zero if any export failed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, date := range []string{batchFrom, batchTo} {
			if date == "" {
				continue
			}
			if err := data.ValidateDate(date); err != nil {
				return err
			}
		}

		reports := common.ArrToLower(batchReports)
		needReference := false
		for _, report := range reports {
			exp, ok := exporters[report]
			if !ok {
				return errors.Wrapf(data.ErrUnknownKind, "%q", report)
			}
			needReference = needReference || exp.needsReference()
		}

		portfolios := common.ArrTrim(batchPortfolios)
		if len(portfolios) == 0 {
			portfolios = []string{""}
		}

		manager, err := newManager(needReference)
		if err != nil {
			return err
		}
		opts, err := exportOptions()
		if err != nil {
			return err
		}

		units, err := batchUnits(manager.Config().Directory, reports, portfolios)
		if err != nil {
			return err
		}

		failed := runBatch(manager, opts, units)
		log.Info().Int("NumExports", len(units)).Int("NumFailed", failed).Msg("batch complete")
		if failed > 0 {
			return errors.Wrapf(ErrBatchFailed, "%d of %d", failed, len(units))
		}
		return nil
	},
}
