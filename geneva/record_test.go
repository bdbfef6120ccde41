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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/geneva"
)

var _ = Describe("Record builder", func() {
	var block geneva.Block

	BeforeEach(func() {
		block = geneva.Block{
			Preamble: []geneva.Line{
				line(1, "Portfolio: 12307"),
				line(2, "Period End Date: 03/31/2021"),
				line(3, "Knowledge Date: 04/13/2021 14:25"),
				line(4, "Book Currency:", "USD"),
				line(5, "Report Run By: operations"),
			},
			Header: line(6, "InvestID", "Quantity", "MarketPrice", ""),
			Rows: []geneva.Line{
				line(7, "1088 HK", "500000", "16.02"),
				line(8, "700 HK", "10000", "650", "", ""),
			},
		}
	})

	It("zips rows with the header", func() {
		part, err := geneva.BuildPart(block)
		Expect(err).To(BeNil())
		Expect(part.Line).To(Equal(1))
		Expect(part.Records).To(HaveLen(2))
		Expect(part.Records[0]).To(Equal(geneva.RawRecord{
			"InvestID":    "1088 HK",
			"Quantity":    "500000",
			"MarketPrice": "16.02",
		}))
		Expect(part.Lines).To(Equal([]int{7, 8}))
	})

	It("normalizes the preamble", func() {
		part, err := geneva.BuildPart(block)
		Expect(err).To(BeNil())
		Expect(part.Meta(geneva.MetaPortfolio)).To(Equal("12307"))
		Expect(part.Meta(geneva.MetaPeriodEndDate)).To(Equal("2021-03-31"))
		Expect(part.Meta(geneva.MetaKnowledgeDate)).To(Equal("2021-04-13 14:25"))
		Expect(part.Meta(geneva.MetaBookCurrency)).To(Equal("USD"))
		Expect(part.Meta("ReportRunBy")).To(Equal("operations"))
		Expect(part.Meta(geneva.MetaPeriodStartDate)).To(Equal(""))
	})

	It("pads short rows with empty cells", func() {
		block.Rows = append(block.Rows, line(9, "5 HK"))
		part, err := geneva.BuildPart(block)
		Expect(err).To(BeNil())
		Expect(part.Records[2]["Quantity"]).To(Equal(""))
		Expect(part.Records[2]["MarketPrice"]).To(Equal(""))
	})

	It("rejects rows with values beyond the header", func() {
		block.Rows = append(block.Rows, line(9, "5 HK", "1", "2", "3"))
		_, err := geneva.BuildPart(block)
		Expect(errors.Is(err, geneva.ErrMalformedReport)).To(BeTrue())

		var malformed *geneva.MalformedReportError
		Expect(errors.As(err, &malformed)).To(BeTrue())
		Expect(malformed.Line).To(Equal(9))
	})

	It("rejects duplicate header columns", func() {
		block.Header = line(6, "InvestID", "Quantity", "InvestID")
		_, err := geneva.BuildPart(block)
		Expect(errors.Is(err, geneva.ErrMalformedReport)).To(BeTrue())
	})

	It("rejects empty header columns", func() {
		block.Header = line(6, "InvestID", "", "MarketPrice")
		_, err := geneva.BuildPart(block)
		Expect(errors.Is(err, geneva.ErrMalformedReport)).To(BeTrue())
	})

	It("reports missing required metadata", func() {
		block.Preamble = block.Preamble[:1]
		part, err := geneva.BuildPart(block)
		Expect(err).To(BeNil())

		err = part.Require(geneva.MetaPortfolio, geneva.MetaBookCurrency)
		Expect(errors.Is(err, geneva.ErrMissingMetadata)).To(BeTrue())

		var missing *geneva.MissingMetadataError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Key).To(Equal(geneva.MetaBookCurrency))
	})
})
