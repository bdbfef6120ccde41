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

// Package fx resolves exchange rates from the cash balances of the tax lot
// report. Geneva prices each cash currency in the book currency of the
// portfolio holding it, which gives one rate per (date, portfolio, currency).
package fx

import (
	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/rs/zerolog/log"
)

// Entry is one exchange rate: 1 unit of Currency is worth ExchangeRate units
// of TargetCurrency
type Entry struct {
	Date           string  `json:"Date"`
	Portfolio      string  `json:"Portfolio"`
	Currency       string  `json:"Currency"`
	TargetCurrency string  `json:"TargetCurrency"`
	ExchangeRate   float64 `json:"ExchangeRate"`
}

type exactKey struct {
	date      string
	portfolio string
	currency  string
	target    string
}

type pairKey struct {
	date     string
	currency string
	target   string
}

// Table is an immutable exchange rate lookup
type Table struct {
	entries []Entry
	exact   map[exactKey]float64
	pairs   map[pairKey]Entry
}

// EntriesFromTaxLots re-keys the foreign currency cash positions of a tax
// lot report into exchange rates. Cash held in the book currency and cash
// without a market price are skipped.
func EntriesFromTaxLots(lots []geneva.TaxLot) []Entry {
	entries := make([]Entry, 0, 16)
	for _, lot := range lots {
		if !lot.IsCash() || lot.BookCurrency == lot.InvestID || !lot.MarketPrice.Valid {
			continue
		}
		entries = append(entries, Entry{
			Date:           lot.PeriodEndDate,
			Portfolio:      lot.Portfolio,
			Currency:       lot.InvestID,
			TargetCurrency: lot.BookCurrency,
			ExchangeRate:   lot.MarketPrice.Value,
		})
	}
	return entries
}

// NewTable builds a table from the tax lots of one or more report dates
func NewTable(lots ...[]geneva.TaxLot) *Table {
	entries := make([]Entry, 0, 32)
	for _, dateLots := range lots {
		entries = append(entries, EntriesFromTaxLots(dateLots)...)
	}
	return NewTableFromEntries(entries)
}

// NewTableFromEntries builds a table from explicit rates. When several
// entries share a key the first one wins; portfolios that disagree on the
// rate for the same date and currency pair are logged.
func NewTableFromEntries(entries []Entry) *Table {
	table := &Table{
		entries: make([]Entry, 0, len(entries)),
		exact:   make(map[exactKey]float64, len(entries)),
		pairs:   make(map[pairKey]Entry, len(entries)),
	}

	for _, entry := range entries {
		if entry.ExchangeRate == 0 {
			log.Warn().Str("Date", entry.Date).Str("Portfolio", entry.Portfolio).Str("Currency", entry.Currency).Str("TargetCurrency", entry.TargetCurrency).Msg("ignoring zero exchange rate")
			continue
		}

		ek := exactKey{date: entry.Date, portfolio: entry.Portfolio, currency: entry.Currency, target: entry.TargetCurrency}
		if _, ok := table.exact[ek]; ok {
			continue
		}
		table.exact[ek] = entry.ExchangeRate
		table.entries = append(table.entries, entry)

		pk := pairKey{date: entry.Date, currency: entry.Currency, target: entry.TargetCurrency}
		if first, ok := table.pairs[pk]; ok {
			if first.ExchangeRate != entry.ExchangeRate {
				log.Warn().
					Str("Date", entry.Date).
					Str("Currency", entry.Currency).
					Str("TargetCurrency", entry.TargetCurrency).
					Str("Portfolio", first.Portfolio).
					Float64("ExchangeRate", first.ExchangeRate).
					Str("OtherPortfolio", entry.Portfolio).
					Float64("OtherExchangeRate", entry.ExchangeRate).
					Msg("portfolios disagree on exchange rate")
			}
			continue
		}
		table.pairs[pk] = entry
	}

	return table
}

// Entries returns the rates held by the table in insertion order
func (t *Table) Entries() []Entry {
	result := make([]Entry, len(t.entries))
	copy(result, t.entries)
	return result
}

// Rate converts one unit of currency into target on date. Lookups are tried
// in order: identical currencies, the portfolio's own rate, the portfolio's
// inverse rate, any portfolio's rate, any portfolio's inverse rate.
func (t *Table) Rate(date, portfolio, currency, target string) (float64, error) {
	if currency == target {
		return 1.0, nil
	}

	if rate, ok := t.exact[exactKey{date: date, portfolio: portfolio, currency: currency, target: target}]; ok {
		return rate, nil
	}

	if rate, ok := t.exact[exactKey{date: date, portfolio: portfolio, currency: target, target: currency}]; ok {
		return 1 / rate, nil
	}

	subLog := log.With().Str("Date", date).Str("Portfolio", portfolio).Str("Currency", currency).Str("TargetCurrency", target).Logger()

	if entry, ok := t.pairs[pairKey{date: date, currency: currency, target: target}]; ok {
		subLog.Debug().Str("RatePortfolio", entry.Portfolio).Msg("no rate for portfolio; using rate of another portfolio")
		return entry.ExchangeRate, nil
	}

	if entry, ok := t.pairs[pairKey{date: date, currency: target, target: currency}]; ok {
		subLog.Debug().Str("RatePortfolio", entry.Portfolio).Msg("no rate for portfolio; using inverse rate of another portfolio")
		return 1 / entry.ExchangeRate, nil
	}

	return 0, &FxRateNotFoundError{
		Date:      date,
		Portfolio: portfolio,
		Currency:  currency,
		Target:    target,
	}
}
