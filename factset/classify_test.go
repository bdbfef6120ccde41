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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/factset"
)

var _ = Describe("Classification", func() {
	DescribeTable("known investment types",
		func(investmentType string, expected factset.Classification) {
			c, err := factset.Classify(investmentType)
			Expect(err).To(BeNil())
			Expect(c).To(Equal(expected))
		},
		Entry("cash", "Cash and Equivalents", factset.Classification{Class: factset.ClassCash, Type: "Zero Interest Cash"}),
		Entry("adr", "American Depository Receipt", factset.Classification{Class: factset.ClassEquity, Type: "ADR"}),
		Entry("common stock", "Common Stock", factset.EquityCommon),
		Entry("stapled security", "Stapled Security", factset.EquityCommon),
		Entry("preferred", "Preferred Stock", factset.Preferred),
		Entry("closed end fund", "Closed End Fund", factset.Classification{Class: factset.ClassFunds, Type: "Close Ended Fund"}),
		Entry("open end fund", "Open-End Fund", factset.MutualFund),
		Entry("etf", "Exchange Trade Fund", factset.ExchangeTradedFund),
		Entry("reit", "Real Estate Investment Trust", factset.REIT),
	)

	DescribeTable("unknown investment types",
		func(investmentType string) {
			_, err := factset.Classify(investmentType)
			Expect(errors.Is(err, factset.ErrUnsupportedAssetType)).To(BeTrue())

			var unsupported *factset.UnsupportedAssetTypeError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.InvestmentType).To(Equal(investmentType))
		},
		Entry("index option", "Index Option"),
		Entry("different case", "common stock"),
		Entry("blank", ""),
	)
})

var _ = Describe("Symbols", func() {
	DescribeTable("exchange locations",
		func(investID, expected string) {
			location, err := factset.ExchangeLocation(investID)
			Expect(err).To(BeNil())
			Expect(location).To(Equal(expected))
		},
		Entry("shanghai connect", "600519 C1", "CN"),
		Entry("shenzhen connect", "000001 C2", "CN"),
		Entry("china", "601318 CH", "CN"),
		Entry("hong kong", "1088 HK", "HK"),
		Entry("united states", "AAPL US", "US"),
		Entry("singapore", "D05 SP", "SG"),
	)

	DescribeTable("unknown exchange locations",
		func(investID string) {
			_, err := factset.ExchangeLocation(investID)
			Expect(errors.Is(err, factset.ErrUnsupportedSymbol)).To(BeTrue())
		},
		Entry("tokyo", "7203 JP"),
		Entry("no suffix", "HKD"),
		Entry("blank", ""),
	)

	It("builds symbols per asset class", func() {
		secs := testSecurities()

		symbol, err := factset.Symbol(secs["HKD"], factset.ZeroInterestCash)
		Expect(err).To(BeNil())
		Expect(symbol).To(Equal("CASH_ZERO_HKD"))

		symbol, err = factset.Symbol(secs["1088 HK"], factset.EquityCommon)
		Expect(err).To(BeNil())
		Expect(symbol).To(Equal("CNE1000002R0-HK"))

		symbol, err = factset.Symbol(secs["2800 HK"], factset.ExchangeTradedFund)
		Expect(err).To(BeNil())
		Expect(symbol).To(Equal("6392049-HK"))
	})

	It("needs an ISIN or a SEDOL", func() {
		_, err := factset.Symbol(factset.Security{InvestID: "5 HK"}, factset.EquityCommon)
		Expect(errors.Is(err, factset.ErrUnsupportedSymbol)).To(BeTrue())
	})
})
