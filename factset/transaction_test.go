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

package factset_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/factset"
	"github.com/penny-vault/pv-geneva/fx"
	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Transaction mapper", func() {
	var mapper *factset.Mapper

	BeforeEach(func() {
		mapper = factset.NewMapper(testSecurities(), testPortfolios(), fx.NewTableFromEntries(nil))
	})

	DescribeTable("currency descriptions",
		func(description, expected string) {
			code, err := factset.CurrencyFromDescription(description)
			Expect(err).To(BeNil())
			Expect(code).To(Equal(expected))
		},
		Entry("renminbi", "Chinese Renminbi Yuan", "CNY"),
		Entry("offshore renminbi", "Chinese Renminbi Yuan Offshore", "CNY"),
		Entry("hong kong dollar", "Hong Kong Dollar", "HKD"),
		Entry("us dollar", "UNITED STATES DOLLAR", "USD"),
	)

	It("rejects unknown currency descriptions", func() {
		_, err := factset.CurrencyFromDescription("Euro")
		Expect(errors.Is(err, factset.ErrReferenceNotFound)).To(BeTrue())
	})

	Context("with the cash ledger", func() {
		var entries []geneva.CashLedgerEntry

		BeforeEach(func() {
			var err error
			entries, err = geneva.ReadCashLedger(bytes.NewReader(reporthelper.CashLedgerReport().UTF16()), geneva.DefaultFormat)
			Expect(err).To(BeNil())
		})

		It("exports dividends and return of capital", func() {
			txns, err := mapper.CashLedgerTransactions(entries)
			Expect(err).To(BeNil())
			Expect(txns).To(HaveLen(3))

			Expect(txns[0].PortfolioCode).To(Equal("12307"))
			Expect(txns[0].Date).To(Equal("20210315"))
			Expect(txns[0].Symbol).To(Equal("B09N7M0"))
			Expect(txns[0].AssetClass).To(Equal(factset.ClassEquity))
			Expect(txns[0].AssetType).To(Equal("Equity Common"))
			Expect(txns[0].TransactionID).To(Equal("12307_7001"))
			Expect(txns[0].TransactionStatus).To(Equal("ACCT"))
			Expect(txns[0].TradeType).To(Equal("IN"))
			Expect(txns[0].PriceISO).To(Equal("HKD"))
			Expect(txns[0].GrossTransactionAmount).To(Equal(geneva.Num(152300)))
			Expect(txns[0].NetTransactionAmount).To(Equal(geneva.Num(152300)))
			Expect(txns[0].SettleDate).To(Equal("20210315"))

			row := txns[0].Row()
			Expect(row).To(HaveLen(len(factset.TransactionFields)))
			Expect(row[9]).To(Equal(""))
			Expect(row[10]).To(Equal(""))
			Expect(row[13]).To(Equal("0"))

			Expect(txns[1].TransactionID).To(Equal("12307_7004"))
			Expect(txns[1].Symbol).To(Equal("BMMV2K8"))
			Expect(txns[2].TransactionID).To(Equal("12307_7005"))
			Expect(txns[2].PriceISO).To(Equal("USD"))
		})

		It("fails on descriptions it does not know", func() {
			entries[2].TranDescription = "Interest"
			_, err := mapper.CashLedgerTransactions(entries)
			Expect(errors.Is(err, factset.ErrUnsupportedTransaction)).To(BeTrue())

			var unsupported *factset.UnsupportedTransactionError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.TransID).To(Equal("7002"))
		})

		It("only exports equity income", func() {
			entries[1].Investment = "Tracker Fund of Hong Kong (2800 HK)"
			_, err := mapper.CashLedgerTransactions(entries)
			Expect(errors.Is(err, factset.ErrUnsupportedSymbol)).To(BeTrue())
		})
	})

	Context("with the purchase and sales report", func() {
		var trades []geneva.PurchaseSale

		BeforeEach(func() {
			var err error
			trades, err = geneva.ReadPurchaseSales(bytes.NewReader(reporthelper.PurchaseSalesReport().UTF16()), geneva.DefaultFormat)
			Expect(err).To(BeNil())
		})

		It("exports buys", func() {
			txns, err := mapper.PurchaseSaleTransactions(trades)
			Expect(err).To(BeNil())
			Expect(txns).To(HaveLen(3))

			buy := txns[0]
			Expect(buy.TradeType).To(Equal("BL"))
			Expect(buy.Symbol).To(Equal("B09N7M0"))
			Expect(buy.Date).To(Equal("20210317"))
			Expect(buy.SettleDate).To(Equal("20210319"))
			Expect(buy.Quantity).To(Equal(geneva.Num(261500)))
			Expect(buy.Price).To(Equal(geneva.Num(15.0445)))
			Expect(buy.CommissionsAndFees.Value).To(BeNumerically("~", 120.5, 1e-9))
			Expect(buy.GrossTransactionAmount.Value).To(BeNumerically("~", 3934136.75, 1e-6))
			Expect(buy.NetTransactionAmount.Value).To(BeNumerically("~", 3934016.25, 1e-6))
			Expect(buy.Broker).To(Equal("CLSA"))
			Expect(buy.TransactionID).To(Equal("12307_8001"))
		})

		It("exports sells", func() {
			txns, err := mapper.PurchaseSaleTransactions(trades)
			Expect(err).To(BeNil())

			sell := txns[1]
			Expect(sell.TradeType).To(Equal("SL"))
			Expect(sell.GrossTransactionAmount.Value).To(BeNumerically("~", 649820.0, 1e-6))
			Expect(sell.NetTransactionAmount.Value).To(BeNumerically("~", 650000.0, 1e-6))
		})

		It("exports spot fx against the cash position", func() {
			txns, err := mapper.PurchaseSaleTransactions(trades)
			Expect(err).To(BeNil())

			spot := txns[2]
			Expect(spot.TradeType).To(Equal("BL"))
			Expect(spot.Symbol).To(Equal("CASH_ZERO_USD"))
			Expect(spot.AssetClass).To(Equal(factset.ClassCash))
			Expect(spot.Price.Value).To(BeNumerically("~", 1/7.7745, 1e-12))
			Expect(spot.GrossTransactionAmount).To(Equal(geneva.Num(100000)))
			Expect(spot.NetTransactionAmount).To(Equal(geneva.Num(100000)))
		})

		It("fails on trade types it does not know", func() {
			trades[0].TranType = "Transfer"
			_, err := mapper.PurchaseSaleTransactions(trades)
			Expect(errors.Is(err, factset.ErrUnsupportedTransaction)).To(BeTrue())
		})
	})
})
