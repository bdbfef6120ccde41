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

package data

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/penny-vault/pv-geneva/common"
	"github.com/penny-vault/pv-geneva/factset"
	"github.com/penny-vault/pv-geneva/fx"
	"github.com/penny-vault/pv-geneva/geneva"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Manager resolves report files, reads them through a small cache and feeds
// the consolidated records to the FactSet mapper. Slices returned by the
// manager may be shared with the cache and must not be modified.
type Manager struct {
	cfg     Config
	ref     *Reference
	cache   *common.ReportCache
	sources []common.FileDigest
}

type cachedReport struct {
	records interface{}
	source  common.FileDigest
}

// NewManager creates a manager for cfg. ref may be nil when only Geneva
// reports are needed; the FactSet exports then fail with ErrNoReferenceData.
func NewManager(cfg Config, ref *Reference) (*Manager, error) {
	if cfg.Directory == "" {
		return nil, ErrNoDataDirectory
	}
	if cfg.Format.Encoding == "" {
		cfg.Format.Encoding = geneva.DefaultFormat.Encoding
	}
	if cfg.Format.Delimiter == 0 {
		cfg.Format.Delimiter = geneva.DefaultFormat.Delimiter
	}

	cache, err := common.NewReportCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:   cfg,
		ref:   ref,
		cache: cache,
	}, nil
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Sources lists the files read, or served from cache, since the last
// ResetSources
func (m *Manager) Sources() []common.FileDigest {
	result := make([]common.FileDigest, len(m.sources))
	copy(result, m.sources)
	return result
}

func (m *Manager) ResetSources() {
	m.sources = nil
}

// Purge drops every cached report so the next read goes to disk
func (m *Manager) Purge() {
	log.Debug().Int("NumReports", m.cache.Len()).Msg("purging report cache")
	m.cache.Purge()
}

func (m *Manager) addSource(source common.FileDigest) {
	for _, existing := range m.sources {
		if existing.FileName == source.FileName {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Manager) ReportFile(kind Kind, date string) (string, error) {
	return FindFile(m.cfg.Directory, kind, date)
}

func cached[T any](m *Manager, key string) ([]T, bool) {
	val, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}

	entry := val.(cachedReport)
	m.addSource(entry.source)
	log.Debug().Str("Key", key).Str("FileName", entry.source.FileName).Msg("report served from cache")
	return entry.records.([]T), true
}

func load[T any](m *Manager, key, fn string, read func(io.Reader, geneva.Format) ([]T, error)) ([]T, error) {
	content, err := os.ReadFile(fn)
	if err != nil {
		err = pkgerrors.Wrapf(err, "read %s", fn)
		log.Error().Stack().Err(err).Str("FileName", fn).Msg("could not read report")
		return nil, err
	}

	source := common.FileDigest{FileName: fn, Digest: common.DigestBytes(content)}
	subLog := log.With().Str("FileName", fn).Str("Digest", source.Digest).Logger()
	subLog.Info().Int("Bytes", len(content)).Msg("reading report")

	records, err := read(bytes.NewReader(content), m.cfg.Format)
	if err != nil {
		subLog.Error().Err(err).Msg("could not parse report")
		return nil, err
	}

	subLog.Debug().Int("NumRecords", len(records)).Msg("parsed report")
	m.cache.Set(key, cachedReport{records: records, source: source})
	m.addSource(source)
	return records, nil
}

// loadDated resolves the file only on a cache miss so a report stays
// available for its date once read
func loadDated[T any](m *Manager, kind Kind, date string, read func(io.Reader, geneva.Format) ([]T, error)) ([]T, error) {
	key := string(kind) + "|" + date
	if records, ok := cached[T](m, key); ok {
		return records, nil
	}

	fn, err := m.ReportFile(kind, date)
	if err != nil {
		return nil, err
	}
	return load(m, key, fn, read)
}

func loadFile[T any](m *Manager, kind Kind, fn string, read func(io.Reader, geneva.Format) ([]T, error)) ([]T, error) {
	key := string(kind) + "|" + fn
	if records, ok := cached[T](m, key); ok {
		return records, nil
	}
	return load(m, key, fn, read)
}

// forPortfolio keeps the records of portfolio; a blank portfolio keeps all
func forPortfolio[T any](records []T, portfolio string, get func(T) string) []T {
	if portfolio == "" {
		return records
	}

	result := make([]T, 0, len(records))
	for _, rec := range records {
		if get(rec) == portfolio {
			result = append(result, rec)
		}
	}
	return result
}

func readDividends(r io.Reader, format geneva.Format) ([]geneva.DividendReceivable, error) {
	entries, err := geneva.ReadDividendReceivables(r, format)
	if err != nil {
		return nil, err
	}
	return geneva.ConsolidateDividends(entries)
}

// TaxLots returns the consolidated tax lot positions effective on date
func (m *Manager) TaxLots(date, portfolio string) ([]geneva.TaxLot, error) {
	lots, err := loadDated(m, KindTaxLot, date, geneva.ReadTaxLots)
	if err != nil {
		return nil, err
	}
	return forPortfolio(lots, portfolio, func(lot geneva.TaxLot) string { return lot.Portfolio }), nil
}

func (m *Manager) TaxLotsFromFile(fn string) ([]geneva.TaxLot, error) {
	return loadFile(m, KindTaxLot, fn, geneva.ReadTaxLots)
}

func (m *Manager) CashLedger(date, portfolio string) ([]geneva.CashLedgerEntry, error) {
	entries, err := loadDated(m, KindCashLedger, date, geneva.ReadCashLedger)
	if err != nil {
		return nil, err
	}
	return forPortfolio(entries, portfolio, func(entry geneva.CashLedgerEntry) string { return entry.Portfolio }), nil
}

func (m *Manager) CashLedgerFromFile(fn string) ([]geneva.CashLedgerEntry, error) {
	return loadFile(m, KindCashLedger, fn, geneva.ReadCashLedger)
}

// Dividends returns the consolidated dividend receivables effective on date
func (m *Manager) Dividends(date, portfolio string) ([]geneva.DividendReceivable, error) {
	entries, err := loadDated(m, KindDividendReceivable, date, readDividends)
	if err != nil {
		return nil, err
	}
	return forPortfolio(entries, portfolio, func(entry geneva.DividendReceivable) string { return entry.Portfolio }), nil
}

func (m *Manager) DividendsFromFile(fn string) ([]geneva.DividendReceivable, error) {
	return loadFile(m, KindDividendReceivable, fn, readDividends)
}

func (m *Manager) PurchaseSales(date, portfolio string) ([]geneva.PurchaseSale, error) {
	trades, err := loadDated(m, KindPurchaseSales, date, geneva.ReadPurchaseSales)
	if err != nil {
		return nil, err
	}
	return forPortfolio(trades, portfolio, func(trade geneva.PurchaseSale) string { return trade.Portfolio }), nil
}

func (m *Manager) PurchaseSalesFromFile(fn string) ([]geneva.PurchaseSale, error) {
	return loadFile(m, KindPurchaseSales, fn, geneva.ReadPurchaseSales)
}

// FxTable builds the exchange rate table from the cash positions of every
// portfolio in the tax lot report effective on date
func (m *Manager) FxTable(date string) (*fx.Table, error) {
	lots, err := m.TaxLots(date, "")
	if err != nil {
		return nil, err
	}
	return fx.NewTable(lots), nil
}

func (m *Manager) Rate(date, portfolio, currency, target string) (float64, error) {
	table, err := m.FxTable(date)
	if err != nil {
		return 0, err
	}
	return table.Rate(date, portfolio, currency, target)
}

func (m *Manager) mapper(rates factset.RateSource) (*factset.Mapper, error) {
	if m.ref == nil {
		return nil, ErrNoReferenceData
	}
	return factset.NewMapper(m.ref, m.ref, rates), nil
}

// missingReport is true when err says no file of the kind exists, as
// opposed to an ambiguous or unreadable one
func missingReport(err error) bool {
	var resolution *FileResolutionError
	return errors.As(err, &resolution) && len(resolution.Candidates) == 0
}

// Positions maps the tax lot positions of portfolio effective on date to
// FactSet positions. A missing dividend receivable report means no income.
func (m *Manager) Positions(date, portfolio string) ([]factset.Position, error) {
	subLog := log.With().Str("Date", date).Str("Portfolio", portfolio).Logger()

	lots, err := m.TaxLots(date, portfolio)
	if err != nil {
		return nil, err
	}

	receivables, err := m.Dividends(date, portfolio)
	if err != nil {
		if !missingReport(err) {
			return nil, err
		}
		subLog.Warn().Msg("no dividend receivable report; per share income will be zero")
	}

	table, err := m.FxTable(date)
	if err != nil {
		return nil, err
	}

	mapper, err := m.mapper(table)
	if err != nil {
		return nil, err
	}

	return mapper.Positions(lots, receivables)
}

// Transactions maps the cash ledger income and the purchases and sales of
// portfolio effective on date to FactSet transactions. Either report may be
// missing but not both.
func (m *Manager) Transactions(date, portfolio string) ([]factset.Transaction, error) {
	subLog := log.With().Str("Date", date).Str("Portfolio", portfolio).Logger()

	mapper, err := m.mapper(nil)
	if err != nil {
		return nil, err
	}

	var transactions []factset.Transaction
	found := 0

	entries, err := m.CashLedger(date, portfolio)
	switch {
	case err == nil:
		found++
		income, err := mapper.CashLedgerTransactions(entries)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, income...)
	case missingReport(err):
		subLog.Warn().Msg("no cash ledger report")
	default:
		return nil, err
	}

	trades, err := m.PurchaseSales(date, portfolio)
	switch {
	case err == nil:
		found++
		tradeTxns, err := mapper.PurchaseSaleTransactions(trades)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tradeTxns...)
	case missingReport(err):
		subLog.Warn().Msg("no purchase and sales report")
		if found == 0 {
			return nil, err
		}
	default:
		return nil, err
	}

	return transactions, nil
}
