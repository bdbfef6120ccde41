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
	"errors"
	"fmt"

	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/export"
	"github.com/penny-vault/pv-geneva/factset"
	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var ErrSelectInput = errors.New("specify exactly one of --file or --date")

// exporter writes one report for a date and portfolio; a blank portfolio
// exports every portfolio in the report
type exporter interface {
	sourceKind() data.Kind
	needsReference() bool
	exportDate(manager *data.Manager, opts export.Options, date, portfolio string) (string, error)
}

// reportTable describes how one exported table is read
type reportTable[T export.Record] struct {
	name      string
	kind      data.Kind
	prefix    string
	fields    []string
	reference bool
	byDate    func(manager *data.Manager, date, portfolio string) ([]T, error)

	// whole file mode; nil for tables assembled from several reports
	fromFile  func(manager *data.Manager, fn string) ([]T, error)
	portfolio func(T) string
	date      func(T) string
}

func (t reportTable[T]) sourceKind() data.Kind { return t.kind }
func (t reportTable[T]) needsReference() bool { return t.reference }

func (t reportTable[T]) exportDate(manager *data.Manager, opts export.Options, date, portfolio string) (string, error) {
	manager.ResetSources()
	records, err := t.byDate(manager, date, portfolio)
	if err != nil {
		return "", err
	}
	return writeTable(manager, opts, t.name, t.prefix, date, portfolio, t.fields, records)
}

func (t reportTable[T]) exportFile(manager *data.Manager, opts export.Options, fn, portfolio string) (string, error) {
	manager.ResetSources()
	records, err := t.fromFile(manager, fn)
	if err != nil {
		return "", err
	}

	date, ok := data.DateFromFilename(fn)
	if !ok && len(records) > 0 {
		date = t.date(records[0])
	}

	if portfolio != "" {
		filtered := make([]T, 0, len(records))
		for _, rec := range records {
			if t.portfolio(rec) == portfolio {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return writeTable(manager, opts, t.name, t.prefix, date, portfolio, t.fields, records)
}

func (t reportTable[T]) command(short string) *cobra.Command {
	var file, date, portfolio string

	cmd := &cobra.Command{
		Use:   t.name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (date == "") {
				return ErrSelectInput
			}

			subLog := log.With().Str("Report", t.name).Str("Date", date).Str("Portfolio", portfolio).Str("FileName", file).Logger()

			manager, err := newManager(t.reference)
			if err != nil {
				return err
			}
			opts, err := exportOptions()
			if err != nil {
				return err
			}

			var fn string
			if file != "" {
				fn, err = t.exportFile(manager, opts, file, portfolio)
			} else {
				fn, err = t.exportDate(manager, opts, date, portfolio)
			}
			if err != nil {
				subLog.Error().Err(err).Msg("export failed")
				return err
			}

			fmt.Println(fn)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Report date specified as YYYY-MM-DD")
	cmd.Flags().StringVarP(&portfolio, "portfolio", "p", "", "Only export this portfolio; all portfolios when blank")
	if t.fromFile != nil {
		cmd.Flags().StringVarP(&file, "file", "f", "", "Process this report file instead of looking one up by date")
	}

	return cmd
}

var (
	taxLotTable = reportTable[geneva.TaxLot]{
		name:      string(data.KindTaxLot),
		kind:      data.KindTaxLot,
		prefix:    export.PrefixTaxLot,
		fields:    geneva.TaxLotFields,
		byDate:    (*data.Manager).TaxLots,
		fromFile:  (*data.Manager).TaxLotsFromFile,
		portfolio: func(lot geneva.TaxLot) string { return lot.Portfolio },
		date:      func(lot geneva.TaxLot) string { return lot.PeriodEndDate },
	}

	cashLedgerTable = reportTable[geneva.CashLedgerEntry]{
		name:      string(data.KindCashLedger),
		kind:      data.KindCashLedger,
		prefix:    export.PrefixCashLedger,
		fields:    geneva.CashLedgerFields,
		byDate:    (*data.Manager).CashLedger,
		fromFile:  (*data.Manager).CashLedgerFromFile,
		portfolio: func(entry geneva.CashLedgerEntry) string { return entry.Portfolio },
		date:      func(entry geneva.CashLedgerEntry) string { return entry.PeriodEndDate },
	}

	dividendTable = reportTable[geneva.DividendReceivable]{
		name:      string(data.KindDividendReceivable),
		kind:      data.KindDividendReceivable,
		prefix:    export.PrefixDividendReceivable,
		fields:    geneva.DividendReceivableFields,
		byDate:    (*data.Manager).Dividends,
		fromFile:  (*data.Manager).DividendsFromFile,
		portfolio: func(entry geneva.DividendReceivable) string { return entry.Portfolio },
		date:      func(entry geneva.DividendReceivable) string { return entry.PeriodEndDate },
	}

	purchaseSalesTable = reportTable[geneva.PurchaseSale]{
		name:      string(data.KindPurchaseSales),
		kind:      data.KindPurchaseSales,
		prefix:    export.PrefixPurchaseSales,
		fields:    geneva.PurchaseSaleFields,
		byDate:    (*data.Manager).PurchaseSales,
		fromFile:  (*data.Manager).PurchaseSalesFromFile,
		portfolio: func(trade geneva.PurchaseSale) string { return trade.Portfolio },
		date:      func(trade geneva.PurchaseSale) string { return trade.PeriodEndDate },
	}

	positionTable = reportTable[factset.Position]{
		name:      "positions",
		kind:      data.KindTaxLot,
		prefix:    export.PrefixFactSetPositions,
		fields:    factset.PositionFields,
		reference: true,
		byDate:    (*data.Manager).Positions,
	}

	transactionTable = reportTable[factset.Transaction]{
		name:      "transactions",
		kind:      data.KindCashLedger,
		prefix:    export.PrefixFactSetTransactions,
		fields:    factset.TransactionFields,
		reference: true,
		byDate:    (*data.Manager).Transactions,
	}
)

// exportOrder lists every exported table in the order batch runs them
var exportOrder = []string{
	taxLotTable.name, cashLedgerTable.name, dividendTable.name,
	purchaseSalesTable.name, positionTable.name, transactionTable.name,
}

var exporters = map[string]exporter{
	taxLotTable.name:        taxLotTable,
	cashLedgerTable.name:    cashLedgerTable,
	dividendTable.name:      dividendTable,
	purchaseSalesTable.name: purchaseSalesTable,
	positionTable.name:      positionTable,
	transactionTable.name:   transactionTable,
}

func init() {
	rootCmd.AddCommand(taxLotTable.command("Export consolidated tax lot positions"))
	rootCmd.AddCommand(cashLedgerTable.command("Export the cash ledger"))
	rootCmd.AddCommand(dividendTable.command("Export consolidated dividend receivables"))
	rootCmd.AddCommand(purchaseSalesTable.command("Export purchases and sales"))
	rootCmd.AddCommand(positionTable.command("Export FactSet positions"))
	rootCmd.AddCommand(transactionTable.command("Export FactSet transactions"))
}
