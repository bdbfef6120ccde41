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

package geneva

import (
	"io"

	"github.com/rs/zerolog/log"
)

// CashLedgerEntry is one row of the cash ledger report. Opening and closing
// balance lines carry an empty TranDescription.
type CashLedgerEntry struct {
	Portfolio       string `json:"Portfolio"`
	PeriodStartDate string `json:"PeriodStartDate"`
	PeriodEndDate   string `json:"PeriodEndDate"`
	KnowledgeDate   string `json:"KnowledgeDate"`
	BookCurrency    string `json:"BookCurrency"`

	CurrencyOpeningBalDesc            string `json:"Currency_OpeningBalDesc"`
	CurrBegBalLocal                   Number `json:"CurrBegBalLocal"`
	CurrBegBalBook                    Number `json:"CurrBegBalBook"`
	GroupWithinCurrencyOpeningBalDesc string `json:"GroupWithinCurrency_OpeningBalDesc"`
	GroupWithinCurrencyBegBalLoc      Number `json:"GroupWithinCurrencyBegBalLoc"`
	GroupWithinCurrencyBegBalBook     Number `json:"GroupWithinCurrencyBegBalBook"`

	CashDate        string `json:"CashDate"`
	TradeDate       string `json:"TradeDate"`
	SettleDate      string `json:"SettleDate"`
	TransID         string `json:"TransID"`
	TranDescription string `json:"TranDescription"`
	Investment      string `json:"Investment"`
	Quantity        Number `json:"Quantity"`
	Price           Number `json:"Price"`
	LocalAmount     Number `json:"LocalAmount"`
	LocalBalance    Number `json:"LocalBalance"`
	BookAmount      Number `json:"BookAmount"`
	BookBalance     Number `json:"BookBalance"`

	GroupWithinCurrencyClosingBalDesc string `json:"GroupWithinCurrency_ClosingBalDesc"`
	GroupWithinCurrencyClosingBalLoc  Number `json:"GroupWithinCurrencyClosingBalLoc"`
	GroupWithinCurrencyClosingBalBook Number `json:"GroupWithinCurrencyClosingBalBook"`
	CurrencyClosingBalDesc            string `json:"Currency_ClosingBalDesc"`
	CurrClosingBalLocal               Number `json:"CurrClosingBalLocal"`
	CurrClosingBalBook                Number `json:"CurrClosingBalBook"`
}

// Row renders the entry in CashLedgerFields order
func (c CashLedgerEntry) Row() []string {
	return []string{
		c.Portfolio, c.PeriodStartDate, c.PeriodEndDate, c.KnowledgeDate, c.BookCurrency,
		c.CurrencyOpeningBalDesc, c.CurrBegBalLocal.String(), c.CurrBegBalBook.String(),
		c.GroupWithinCurrencyOpeningBalDesc, c.GroupWithinCurrencyBegBalLoc.String(),
		c.GroupWithinCurrencyBegBalBook.String(), c.CashDate, c.TradeDate, c.SettleDate,
		c.TransID, c.TranDescription, c.Investment, c.Quantity.String(), c.Price.String(),
		c.LocalAmount.String(), c.LocalBalance.String(), c.BookAmount.String(),
		c.BookBalance.String(), c.GroupWithinCurrencyClosingBalDesc,
		c.GroupWithinCurrencyClosingBalLoc.String(), c.GroupWithinCurrencyClosingBalBook.String(),
		c.CurrencyClosingBalDesc, c.CurrClosingBalLocal.String(), c.CurrClosingBalBook.String(),
	}
}

// CashLedgerFromPart converts one part of the cash ledger report. The
// preamble of a cash ledger is optional.
func CashLedgerFromPart(part ReportPart) ([]CashLedgerEntry, error) {
	entries := make([]CashLedgerEntry, 0, len(part.Records))
	err := applyRules(part, CashLedgerRules, func(f Fields) {
		entries = append(entries, CashLedgerEntry{
			Portfolio:       part.Meta(MetaPortfolio),
			PeriodStartDate: part.Meta(MetaPeriodStartDate),
			PeriodEndDate:   part.Meta(MetaPeriodEndDate),
			KnowledgeDate:   part.Meta(MetaKnowledgeDate),
			BookCurrency:    part.Meta(MetaBookCurrency),

			CurrencyOpeningBalDesc:            f.Text("Currency_OpeningBalDesc"),
			CurrBegBalLocal:                   f.Number("CurrBegBalLocal"),
			CurrBegBalBook:                    f.Number("CurrBegBalBook"),
			GroupWithinCurrencyOpeningBalDesc: f.Text("GroupWithinCurrency_OpeningBalDesc"),
			GroupWithinCurrencyBegBalLoc:      f.Number("GroupWithinCurrencyBegBalLoc"),
			GroupWithinCurrencyBegBalBook:     f.Number("GroupWithinCurrencyBegBalBook"),

			CashDate:        f.Date("CashDate"),
			TradeDate:       f.Date("TradeDate"),
			SettleDate:      f.Date("SettleDate"),
			TransID:         f.Text("TransID"),
			TranDescription: f.Text("TranDescription"),
			Investment:      f.Text("Investment"),
			Quantity:        f.Number("Quantity"),
			Price:           f.Number("Price"),
			LocalAmount:     f.Number("LocalAmount"),
			LocalBalance:    f.Number("LocalBalance"),
			BookAmount:      f.Number("BookAmount"),
			BookBalance:     f.Number("BookBalance"),

			GroupWithinCurrencyClosingBalDesc: f.Text("GroupWithinCurrency_ClosingBalDesc"),
			GroupWithinCurrencyClosingBalLoc:  f.Number("GroupWithinCurrencyClosingBalLoc"),
			GroupWithinCurrencyClosingBalBook: f.Number("GroupWithinCurrencyClosingBalBook"),
			CurrencyClosingBalDesc:            f.Text("Currency_ClosingBalDesc"),
			CurrClosingBalLocal:               f.Number("CurrClosingBalLocal"),
			CurrClosingBalBook:                f.Number("CurrClosingBalBook"),
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ReadCashLedger reads every part of a multipart cash ledger report
func ReadCashLedger(r io.Reader, format Format) ([]CashLedgerEntry, error) {
	parts, err := ReadParts(r, format)
	if err != nil {
		return nil, err
	}

	result := make([]CashLedgerEntry, 0, 256)
	for _, part := range parts {
		entries, err := CashLedgerFromPart(part)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("Portfolio", part.Meta(MetaPortfolio)).Int("NumEntries", len(entries)).Msg("read cash ledger report part")
		result = append(result, entries...)
	}

	return result, nil
}
