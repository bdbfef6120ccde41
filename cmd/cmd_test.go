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
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/export"
	"github.com/penny-vault/pv-geneva/reporthelper"
)

var _ = Describe("Commands", func() {
	DescribeTable("delimiters",
		func(input string, expected rune) {
			r, err := parseDelimiter(input)
			Expect(err).To(BeNil())
			Expect(r).To(Equal(expected))
		},
		Entry("default", "", '\t'),
		Entry("tab name", "tab", '\t'),
		Entry("escaped tab", `\t`, '\t'),
		Entry("comma name", "comma", ','),
		Entry("pipe", "|", '|'),
	)

	It("rejects multi character delimiters", func() {
		_, err := parseDelimiter("||")
		Expect(err).ToNot(BeNil())
	})

	It("registers an exporter for every report", func() {
		for _, name := range exportOrder {
			Expect(exporters).To(HaveKey(name))
		}
		Expect(exporters).To(HaveLen(len(exportOrder)))
	})

	Context("with a report directory", func() {
		var (
			dir     string
			outDir  string
			manager *data.Manager
			opts    export.Options
		)

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "pvgeneva-cmd")
			Expect(err).To(BeNil())
			DeferCleanup(os.RemoveAll, dir)
			outDir = filepath.Join(dir, "out")

			reporthelper.TaxLotReport().WriteFile(dir, reporthelper.TaxLotFile)
			reporthelper.DividendReport().WriteFile(dir, reporthelper.DividendFile)
			reporthelper.CashLedgerReport().WriteFile(dir, reporthelper.CashLedgerFile)
			reporthelper.PurchaseSalesReport().WriteFile(dir, reporthelper.PurchaseSalesFile)
			reporthelper.TaxLotReport().WriteFile(dir, "all funds tax lot 2021-03-30.txt")

			ref, err := data.ParseReference([]byte(reporthelper.ReferenceTOML()))
			Expect(err).To(BeNil())

			cfg := data.DefaultConfig()
			cfg.Directory = dir
			manager, err = data.NewManager(cfg, ref)
			Expect(err).To(BeNil())

			opts = export.Options{Directory: outDir, Format: export.FormatCSV}
			batchFrom, batchTo = "", ""
		})

		It("plans one unit per report date and portfolio", func() {
			batchFrom = "2021-03-30"
			units, err := batchUnits(dir, []string{"positions", "transactions"}, []string{"12307", "40006"})
			Expect(err).To(BeNil())
			Expect(units).To(HaveLen(6))
			Expect(units[0]).To(Equal(batchUnit{date: "2021-03-30", portfolio: "12307", report: "positions"}))
			Expect(units[1]).To(Equal(batchUnit{date: "2021-03-30", portfolio: "40006", report: "positions"}))
			Expect(units[2].date).To(Equal("2021-03-31"))
			Expect(units[2].report).To(Equal("positions"))
			Expect(units[4].report).To(Equal("transactions"))
		})

		It("exports one portfolio of a dated report", func() {
			fn, err := exporters["taxlot"].exportDate(manager, opts, "2021-03-31", "12307")
			Expect(err).To(BeNil())
			Expect(fn).To(Equal(filepath.Join(outDir, "taxlot_positions_20210331_12307.csv")))

			content, err := os.ReadFile(fn)
			Expect(err).To(BeNil())
			lines := strings.Split(strings.TrimSpace(string(content)), "\n")
			Expect(lines).To(HaveLen(122))
		})

		It("exports a whole file with a timestamp suffix", func() {
			fn, err := taxLotTable.exportFile(manager, opts, filepath.Join(dir, reporthelper.TaxLotFile), "")
			Expect(err).To(BeNil())
			Expect(filepath.Base(fn)).To(MatchRegexp(`^taxlot_positions_20210331_\d{14}\.csv$`))
		})

		It("exports FactSet positions and transactions", func() {
			fn, err := exporters["positions"].exportDate(manager, opts, "2021-03-31", "12307")
			Expect(err).To(BeNil())
			Expect(filepath.Base(fn)).To(Equal("factset_positions_20210331_12307.csv"))

			fn, err = exporters["transactions"].exportDate(manager, opts, "2021-03-31", "12307")
			Expect(err).To(BeNil())

			content, err := os.ReadFile(fn)
			Expect(err).To(BeNil())
			Expect(string(content)).To(HavePrefix("Portfolio Code,Date,Symbol"))
			Expect(string(content)).To(ContainSubstring("CASH_ZERO_USD"))
		})

		It("resolves an exchange rate from the tax lot report", func() {
			rate, err := resolveRate(manager, "2021-03-31", "12307", "HKD", "USD")
			Expect(err).To(BeNil())
			Expect(rate).To(Equal(0.128626))

			_, err = resolveRate(manager, "2021-02-28", "12307", "HKD", "USD")
			Expect(err).ToNot(BeNil())
		})

		It("keeps exporting after a failed unit", func() {
			units, err := batchUnits(dir, []string{"taxlot", "positions"}, []string{"12307", "40006"})
			Expect(err).To(BeNil())
			Expect(units).To(HaveLen(8))

			Expect(runBatch(manager, opts, units)).To(Equal(2))

			written, err := os.ReadDir(outDir)
			Expect(err).To(BeNil())
			Expect(written).To(HaveLen(6))
		})

		It("fails for portfolios with unclassified positions", func() {
			_, err := exporters["positions"].exportDate(manager, opts, "2021-03-31", "40006")
			Expect(err).ToNot(BeNil())
		})
	})
})
