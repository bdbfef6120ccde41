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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Reference data", func() {
	It("reads securities and portfolios", func() {
		ref, err := data.ParseReference([]byte(reporthelper.ReferenceTOML()))
		Expect(err).To(BeNil())

		name, ok := ref.PortfolioName("12307")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("CLO Equity Fund"))

		_, ok = ref.PortfolioName("99999")
		Expect(ok).To(BeFalse())

		sec, ok := ref.Security("1088 HK")
		Expect(ok).To(BeTrue())
		Expect(sec.ISIN).To(Equal("CNE1000002R0"))
		Expect(sec.SEDOL).To(Equal("B09N7M0"))
		Expect(sec.InvestmentType).To(Equal("Common Stock"))
		Expect(sec.LocalCurrency).To(Equal("HKD"))

		sec, ok = ref.Security(reporthelper.SingleHoldingID(0))
		Expect(ok).To(BeTrue())
		Expect(sec.SEDOL).To(Equal("S002000"))
	})

	It("rejects a security listed twice", func() {
		_, err := data.ParseReference([]byte(`
[[securities]]
invest_id = "5 HK"

[[securities]]
invest_id = "5 HK"
`))
		Expect(errors.Is(err, data.ErrDuplicateSecurity)).To(BeTrue())
	})

	It("reports invalid TOML", func() {
		_, err := data.ParseReference([]byte("[portfolios\n"))
		Expect(err).ToNot(BeNil())
	})
})
