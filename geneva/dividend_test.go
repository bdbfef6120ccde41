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

package geneva_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Dividend receivables", func() {
	var entries []geneva.DividendReceivable

	BeforeEach(func() {
		var err error
		entries, err = geneva.ReadDividendReceivables(bytes.NewReader(reporthelper.DividendReport().UTF16()), geneva.DefaultFormat)
		Expect(err).To(BeNil())
	})

	It("reads every booking", func() {
		Expect(entries).To(HaveLen(4))
		Expect(entries[0].Portfolio).To(Equal("12307"))
		Expect(entries[0].EXDate).To(Equal("2021-03-20"))
		Expect(entries[0].PayDate).To(Equal("2021-04-20"))
		Expect(entries[0].ExDateQuantity).To(Equal(geneva.Num(761500)))
		Expect(entries[0].WHTaxRate.Parsed).To(BeTrue())
		Expect(entries[0].WHTaxRate.Value).To(Equal(10.0))
		Expect(entries[0].InvestID()).To(Equal("1088 HK"))
		Expect(entries[3].Portfolio).To(Equal("40006"))
	})

	It("sums partial bookings of the same dividend", func() {
		consolidated, err := geneva.ConsolidateDividends(entries)
		Expect(err).To(BeNil())
		Expect(consolidated).To(HaveLen(3))
		Expect(consolidated[0].InvestID()).To(Equal("1088 HK"))
		Expect(consolidated[0].LocalGrossDividendRecPay.Value).To(BeNumerically("~", 152300.0, 1e-9))
		Expect(consolidated[0].TransID).To(Equal("5001"))
		Expect(entries[0].LocalGrossDividendRecPay.Value).To(Equal(100000.0))
	})

	DescribeTable("rejects groups that disagree",
		func(field string, modify func(*geneva.DividendReceivable)) {
			changed := make([]geneva.DividendReceivable, len(entries))
			copy(changed, entries)
			modify(&changed[1])

			_, err := geneva.ConsolidateDividends(changed)
			Expect(errors.Is(err, geneva.ErrInconsistentGroup)).To(BeTrue())

			var groupErr *geneva.InconsistentGroupError
			Expect(errors.As(err, &groupErr)).To(BeTrue())
			Expect(groupErr.Field).To(Equal(field))
			Expect(groupErr.Investment).To(Equal("China Shenhua Energy Co Ltd-H (1088 HK)"))
		},
		Entry("ex-date quantity", "ExDateQuantity", func(d *geneva.DividendReceivable) { d.ExDateQuantity = geneva.Num(500000) }),
		Entry("ex-date", "EXDate", func(d *geneva.DividendReceivable) { d.EXDate = "2021-03-21" }),
		Entry("currency", "LocalCurrency", func(d *geneva.DividendReceivable) { d.LocalCurrency = "USD" }),
		Entry("partly missing gross amount", "LocalGrossDividendRecPay", func(d *geneva.DividendReceivable) { d.LocalGrossDividendRecPay = geneva.NA }),
	)

	It("keeps different period end dates apart", func() {
		changed := make([]geneva.DividendReceivable, len(entries))
		copy(changed, entries)
		changed[1].PeriodEndDate = "2021-02-28"
		changed[1].ExDateQuantity = geneva.Num(1)

		consolidated, err := geneva.ConsolidateDividends(changed)
		Expect(err).To(BeNil())
		Expect(consolidated).To(HaveLen(4))
	})
})

var _ = Describe("Cash ledger", func() {
	It("reads transactions and balance lines", func() {
		entries, err := geneva.ReadCashLedger(bytes.NewReader(reporthelper.CashLedgerReport().UTF16()), geneva.DefaultFormat)
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(7))

		Expect(entries[0].TranDescription).To(Equal(""))
		Expect(entries[0].CashDate).To(Equal(""))
		Expect(entries[0].CurrBegBalLocal).To(Equal(geneva.Num(1000000)))
		Expect(entries[0].LocalAmount.Valid).To(BeFalse())

		Expect(entries[1].Portfolio).To(Equal("12307"))
		Expect(entries[1].PeriodStartDate).To(Equal("2021-03-01"))
		Expect(entries[1].TranDescription).To(Equal("Dividend"))
		Expect(entries[1].CashDate).To(Equal("2021-03-15"))
		Expect(entries[1].LocalAmount).To(Equal(geneva.Num(152300)))
		Expect(entries[1].CurrencyClosingBalDesc).To(Equal("Hong Kong Dollar"))
	})

	It("does not require a preamble", func() {
		report := reporthelper.NewReport().Part(nil, reporthelper.CashLedgerHeader,
			reporthelper.Row(reporthelper.CashLedgerHeader, map[string]string{"TransID": "1", "TranDescription": "Dividend"}))
		entries, err := geneva.ReadCashLedger(bytes.NewReader(report.UTF16()), geneva.DefaultFormat)
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Portfolio).To(Equal(""))
	})
})

var _ = Describe("Purchase and sales", func() {
	It("reads every trade", func() {
		trades, err := geneva.ReadPurchaseSales(bytes.NewReader(reporthelper.PurchaseSalesReport().UTF16()), geneva.DefaultFormat)
		Expect(err).To(BeNil())
		Expect(trades).To(HaveLen(3))

		Expect(trades[0].TranType).To(Equal(geneva.TranTypeBuy))
		Expect(trades[0].InvestID).To(Equal("1088 HK"))
		Expect(trades[0].Quantity).To(Equal(geneva.Num(261500)))
		Expect(trades[0].LocalAmount).To(Equal(geneva.Num(-3934136.75)))
		Expect(trades[0].Commission).To(Equal(geneva.Num(100)))
		Expect(trades[0].TradeDate).To(Equal("2021-03-17"))
		Expect(trades[0].BookCurrency).To(Equal("USD"))
		Expect(trades[2].TranType).To(Equal(geneva.TranTypeSpotFX))
		Expect(trades[2].Broker).To(Equal(""))
	})
})
