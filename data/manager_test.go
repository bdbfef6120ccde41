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

package data_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/factset"
	"github.com/penny-vault/pv-geneva/fx"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Manager", func() {
	var (
		dir     string
		manager *data.Manager
	)

	newManager := func(withReference bool) *data.Manager {
		var ref *data.Reference
		if withReference {
			var err error
			ref, err = data.ParseReference([]byte(reporthelper.ReferenceTOML()))
			Expect(err).To(BeNil())
		}

		cfg := data.DefaultConfig()
		cfg.Directory = dir
		m, err := data.NewManager(cfg, ref)
		Expect(err).To(BeNil())
		return m
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "pvgeneva-data")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)

		reporthelper.TaxLotReport().WriteFile(dir, reporthelper.TaxLotFile)
		reporthelper.DividendReport().WriteFile(dir, reporthelper.DividendFile)
		reporthelper.CashLedgerReport().WriteFile(dir, reporthelper.CashLedgerFile)
		reporthelper.PurchaseSalesReport().WriteFile(dir, reporthelper.PurchaseSalesFile)

		manager = newManager(true)
	})

	It("requires a data directory", func() {
		_, err := data.NewManager(data.Config{}, nil)
		Expect(errors.Is(err, data.ErrNoDataDirectory)).To(BeTrue())
	})

	It("filters tax lots by portfolio", func() {
		lots, err := manager.TaxLots("2021-03-31", "12307")
		Expect(err).To(BeNil())
		Expect(lots).To(HaveLen(121))

		all, err := manager.TaxLots("2021-03-31", "")
		Expect(err).To(BeNil())
		Expect(len(all)).To(BeNumerically(">", len(lots)))
	})

	It("records the digest of every file read", func() {
		_, err := manager.TaxLots("2021-03-31", "12307")
		Expect(err).To(BeNil())
		_, err = manager.TaxLots("2021-03-31", "40006")
		Expect(err).To(BeNil())

		sources := manager.Sources()
		Expect(sources).To(HaveLen(1))
		Expect(sources[0].Digest).To(HaveLen(64))

		manager.ResetSources()
		Expect(manager.Sources()).To(BeEmpty())
	})

	It("serves repeated reads from the cache", func() {
		first, err := manager.TaxLots("2021-03-31", "")
		Expect(err).To(BeNil())

		Expect(os.Remove(manager.Sources()[0].FileName)).To(Succeed())

		second, err := manager.TaxLots("2021-03-31", "")
		Expect(err).To(BeNil())
		Expect(second).To(HaveLen(len(first)))
	})

	It("goes back to disk after a purge", func() {
		_, err := manager.TaxLots("2021-03-31", "")
		Expect(err).To(BeNil())
		Expect(os.Remove(manager.Sources()[0].FileName)).To(Succeed())

		manager.Purge()
		_, err = manager.TaxLots("2021-03-31", "")
		Expect(errors.Is(err, data.ErrFileResolution)).To(BeTrue())
	})

	It("reads a report by file name", func() {
		fn, err := manager.ReportFile(data.KindDividendReceivable, "2021-03-31")
		Expect(err).To(BeNil())

		dividends, err := manager.DividendsFromFile(fn)
		Expect(err).To(BeNil())
		Expect(dividends).To(HaveLen(3))
	})

	It("consolidates dividend receivables", func() {
		dividends, err := manager.Dividends("2021-03-31", "12307")
		Expect(err).To(BeNil())
		Expect(dividends).To(HaveLen(2))
		Expect(dividends[0].LocalGrossDividendRecPay.Value).To(BeNumerically("~", 152300.0, 1e-9))
	})

	It("reads the cash ledger and trades", func() {
		entries, err := manager.CashLedger("2021-03-31", "12307")
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(7))

		trades, err := manager.PurchaseSales("2021-03-31", "12307")
		Expect(err).To(BeNil())
		Expect(trades).To(HaveLen(3))
	})

	It("converts currencies with the tax lot rates", func() {
		rate, err := manager.Rate("2021-03-31", "12307", "HKD", "USD")
		Expect(err).To(BeNil())
		Expect(rate).To(Equal(0.128626))

		rate, err = manager.Rate("2021-03-31", "12307", "USD", "HKD")
		Expect(err).To(BeNil())
		Expect(rate).To(BeNumerically("~", 1/0.128626, 1e-9))

		_, err = manager.Rate("2021-03-31", "12307", "AUD", "USD")
		Expect(errors.Is(err, fx.ErrRateNotFound)).To(BeTrue())
	})

	It("fails when the report for a date is missing", func() {
		_, err := manager.TaxLots("2021-03-30", "12307")
		Expect(errors.Is(err, data.ErrFileResolution)).To(BeTrue())
	})

	Context("when mapping to FactSet", func() {
		It("maps every position of 12307", func() {
			positions, err := manager.Positions("2021-03-31", "12307")
			Expect(err).To(BeNil())
			Expect(positions).To(HaveLen(121))

			cash := 0
			var shenhua *factset.Position
			for idx := range positions {
				if positions[idx].AssetClass == factset.ClassCash {
					cash++
				}
				if positions[idx].Symbol == "CNE1000002R0-HK" {
					shenhua = &positions[idx]
				}
			}
			Expect(cash).To(Equal(7))

			Expect(shenhua).ToNot(BeNil())
			Expect(shenhua.PortfolioDescription).To(Equal("CLO Equity Fund"))
			Expect(shenhua.Date).To(Equal("20210331"))
			Expect(shenhua.Shares.Value).To(Equal(761500.0))
			Expect(shenhua.PriceISO).To(Equal("HKD"))
			Expect(shenhua.PerShareIncome.Value).To(BeNumerically("~", 0.2, 1e-12))
			Expect(shenhua.EndingMarketValue.Value).To(BeNumerically("~", 761500*16.02, 1e-6))
		})

		It("refuses positions it cannot classify", func() {
			_, err := manager.Positions("2021-03-31", "40006")
			Expect(errors.Is(err, factset.ErrUnsupportedAssetType)).To(BeTrue())
		})

		It("maps income and trades to transactions", func() {
			transactions, err := manager.Transactions("2021-03-31", "12307")
			Expect(err).To(BeNil())
			Expect(transactions).To(HaveLen(6))
			Expect(transactions[0].TransactionID).To(Equal("12307_7001"))
			Expect(transactions[5].Symbol).To(Equal("CASH_ZERO_USD"))
		})

		It("exports transactions without a purchase and sales report", func() {
			Expect(os.Remove(filepath.Join(dir, reporthelper.PurchaseSalesFile))).To(Succeed())

			transactions, err := manager.Transactions("2021-03-31", "12307")
			Expect(err).To(BeNil())
			Expect(transactions).To(HaveLen(3))
		})

		It("needs reference data", func() {
			_, err := newManager(false).Positions("2021-03-31", "12307")
			Expect(errors.Is(err, data.ErrNoReferenceData)).To(BeTrue())
		})
	})
})
