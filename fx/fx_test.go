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

package fx_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/fx"
	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Exchange rates", func() {
	Context("with explicit entries", func() {
		var table *fx.Table

		BeforeEach(func() {
			table = fx.NewTableFromEntries([]fx.Entry{
				{Date: "2021-03-31", Portfolio: "12307", Currency: "USD", TargetCurrency: "HKD", ExchangeRate: 7.80},
				{Date: "2021-03-31", Portfolio: "40006", Currency: "USD", TargetCurrency: "HKD", ExchangeRate: 7.75},
				{Date: "2021-03-31", Portfolio: "40006", Currency: "CNY", TargetCurrency: "HKD", ExchangeRate: 1.18},
				{Date: "2021-03-31", Portfolio: "12307", Currency: "HKD", TargetCurrency: "CNY", ExchangeRate: 0.84},
			})
		})

		It("returns 1 for identical currencies", func() {
			for _, date := range []string{"2021-03-31", "1999-01-01", ""} {
				rate, err := table.Rate(date, "any", "USD", "USD")
				Expect(err).To(BeNil())
				Expect(rate).To(Equal(1.0))
			}
		})

		It("uses the portfolio's own rate first", func() {
			rate, err := table.Rate("2021-03-31", "40006", "USD", "HKD")
			Expect(err).To(BeNil())
			Expect(rate).To(Equal(7.75))
		})

		It("inverts the portfolio's rate", func() {
			rate, err := table.Rate("2021-03-31", "12307", "HKD", "USD")
			Expect(err).To(BeNil())
			Expect(rate).To(BeNumerically("~", 1/7.80, 1e-15))
		})

		It("prefers the portfolio's inverse over another portfolio's direct rate", func() {
			rate, err := table.Rate("2021-03-31", "12307", "CNY", "HKD")
			Expect(err).To(BeNil())
			Expect(rate).To(BeNumerically("~", 1/0.84, 1e-15))
		})

		It("falls back to another portfolio", func() {
			rate, err := table.Rate("2021-03-31", "99999", "CNY", "HKD")
			Expect(err).To(BeNil())
			Expect(rate).To(Equal(1.18))
		})

		It("falls back to the inverse of another portfolio", func() {
			rate, err := table.Rate("2021-03-31", "99999", "HKD", "USD")
			Expect(err).To(BeNil())
			Expect(rate).To(BeNumerically("~", 1/7.80, 1e-15))
		})

		It("fails when no rate is available", func() {
			_, err := table.Rate("2021-02-28", "12307", "USD", "HKD")
			Expect(errors.Is(err, fx.ErrRateNotFound)).To(BeTrue())

			var notFound *fx.FxRateNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.Currency).To(Equal("USD"))
			Expect(notFound.Target).To(Equal("HKD"))
		})
	})

	It("uses a cross portfolio rate when the portfolio has none", func() {
		table := fx.NewTableFromEntries([]fx.Entry{
			{Date: "2021-03-31", Portfolio: "12307", Currency: "USD", TargetCurrency: "HKD", ExchangeRate: 7.75},
		})
		rate, err := table.Rate("2021-03-31", "99999", "USD", "HKD")
		Expect(err).To(BeNil())
		Expect(rate).To(Equal(7.75))
	})

	It("skips zero rates", func() {
		table := fx.NewTableFromEntries([]fx.Entry{
			{Date: "2021-03-31", Portfolio: "12307", Currency: "USD", TargetCurrency: "HKD", ExchangeRate: 0},
		})
		Expect(table.Entries()).To(BeEmpty())
	})

	Context("with the 2021-03-31 tax lot report", func() {
		var table *fx.Table

		BeforeEach(func() {
			lots, err := geneva.ReadTaxLots(bytes.NewReader(reporthelper.TaxLotReport().UTF16()), geneva.DefaultFormat)
			Expect(err).To(BeNil())
			table = fx.NewTable(lots)
		})

		It("builds one entry per foreign cash currency", func() {
			// 12307 has 6 foreign currencies, 40006 has 2
			Expect(table.Entries()).To(HaveLen(8))
			for _, entry := range table.Entries() {
				Expect(entry.Currency).ToNot(Equal(entry.TargetCurrency))
				Expect(entry.Date).To(Equal("2021-03-31"))
			}
		})

		It("converts between portfolios' book currencies", func() {
			rate, err := table.Rate("2021-03-31", "12307", "HKD", "USD")
			Expect(err).To(BeNil())
			Expect(rate).To(Equal(0.128626))

			rate, err = table.Rate("2021-03-31", "40006", "HKD", "USD")
			Expect(err).To(BeNil())
			Expect(rate).To(BeNumerically("~", 1/7.7745, 1e-12))
		})
	})
})
