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
	"gonum.org/v1/gonum/floats"
)

// DividendReceivable is one line of the dividend receivable report
type DividendReceivable struct {
	Portfolio     string `json:"Portfolio"`
	PeriodEndDate string `json:"PeriodEndDate"`
	KnowledgeDate string `json:"KnowledgeDate"`
	BookCurrency  string `json:"BookCurrency"`

	SortByDescription   string `json:"SortByDescription"`
	LocalAccountingName string `json:"LocalAccountingName"`
	Currency            string `json:"Currency"`
	Textbox96           string `json:"Textbox96"`
	Investment          string `json:"Investment"`
	TransID             string `json:"TransID"`
	EXDate              string `json:"EXDate"`
	ExDateQuantity      Number `json:"ExDateQuantity"`
	LocalCurrency       string `json:"LocalCurrency"`

	LocalGrossDividendRecPay Number  `json:"LocalGrossDividendRecPay"`
	WHTaxRate                Percent `json:"WHTaxRate"`
	LocalWHTaxPayable        Number  `json:"LocalWHTaxPayable"`
	LocalNetDividendRecPay   Number  `json:"LocalNetDividendRecPay"`
	BookGrossDividendRecPay  Number  `json:"BookGrossDividendRecPay"`
	BookWHTaxPayable         Number  `json:"BookWHTaxPayable"`
	BookNetDividendRecPay    Number  `json:"BookNetDividendRecPay"`
	UnrealizedFXGainLoss     Number  `json:"UnrealizedFXGainLoss"`
	PayDate                  string  `json:"PayDate"`
	LocalPerShareAmount      Number  `json:"LocalPerShareAmount"`
	LocalReclaimReceivable   Number  `json:"LocalReclaimReceivable"`
	BookReclaimReceivable    Number  `json:"BookReclaimReceivable"`
	LocalReliefReceivable    Number  `json:"LocalReliefReceivable"`
	BookReliefReceivable     Number  `json:"BookReliefReceivable"`
}

// InvestID is the security id embedded in the investment description
func (d DividendReceivable) InvestID() string {
	return InvestIDFromDescription(d.Investment)
}

// Row renders the receivable in DividendReceivableFields order
func (d DividendReceivable) Row() []string {
	return []string{
		d.Portfolio, d.PeriodEndDate, d.KnowledgeDate, d.BookCurrency,
		d.SortByDescription, d.LocalAccountingName, d.Currency, d.Textbox96,
		d.Investment, d.TransID, d.EXDate, d.ExDateQuantity.String(),
		d.LocalCurrency, d.LocalGrossDividendRecPay.String(), d.WHTaxRate.String(),
		d.LocalWHTaxPayable.String(), d.LocalNetDividendRecPay.String(),
		d.BookGrossDividendRecPay.String(), d.BookWHTaxPayable.String(),
		d.BookNetDividendRecPay.String(), d.UnrealizedFXGainLoss.String(),
		d.PayDate, d.LocalPerShareAmount.String(), d.LocalReclaimReceivable.String(),
		d.BookReclaimReceivable.String(), d.LocalReliefReceivable.String(),
		d.BookReliefReceivable.String(),
	}
}

// DividendsFromPart converts one part of the dividend receivable report
func DividendsFromPart(part ReportPart) ([]DividendReceivable, error) {
	if err := part.Require(MetaPortfolio, MetaPeriodEndDate, MetaKnowledgeDate, MetaBookCurrency); err != nil {
		return nil, err
	}

	entries := make([]DividendReceivable, 0, len(part.Records))
	err := applyRules(part, DividendReceivableRules, func(f Fields) {
		entries = append(entries, DividendReceivable{
			Portfolio:     part.Meta(MetaPortfolio),
			PeriodEndDate: part.Meta(MetaPeriodEndDate),
			KnowledgeDate: part.Meta(MetaKnowledgeDate),
			BookCurrency:  part.Meta(MetaBookCurrency),

			SortByDescription:   f.Text("SortByDescription"),
			LocalAccountingName: f.Text("LocalAccountingName"),
			Currency:            f.Text("Currency"),
			Textbox96:           f.Text("Textbox96"),
			Investment:          f.Text("Investment"),
			TransID:             f.Text("TransID"),
			EXDate:              f.Date("EXDate"),
			ExDateQuantity:      f.Number("ExDateQuantity"),
			LocalCurrency:       f.Text("LocalCurrency"),

			LocalGrossDividendRecPay: f.Number("LocalGrossDividendRecPay"),
			WHTaxRate:                f.Percent("WHTaxRate"),
			LocalWHTaxPayable:        f.Number("LocalWHTaxPayable"),
			LocalNetDividendRecPay:   f.Number("LocalNetDividendRecPay"),
			BookGrossDividendRecPay:  f.Number("BookGrossDividendRecPay"),
			BookWHTaxPayable:         f.Number("BookWHTaxPayable"),
			BookNetDividendRecPay:    f.Number("BookNetDividendRecPay"),
			UnrealizedFXGainLoss:     f.Number("UnrealizedFXGainLoss"),
			PayDate:                  f.Date("PayDate"),
			LocalPerShareAmount:      f.Number("LocalPerShareAmount"),
			LocalReclaimReceivable:   f.Number("LocalReclaimReceivable"),
			BookReclaimReceivable:    f.Number("BookReclaimReceivable"),
			LocalReliefReceivable:    f.Number("LocalReliefReceivable"),
			BookReliefReceivable:     f.Number("BookReliefReceivable"),
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ReadDividendReceivables reads every part of a dividend receivable report.
// The result is not consolidated.
func ReadDividendReceivables(r io.Reader, format Format) ([]DividendReceivable, error) {
	parts, err := ReadParts(r, format)
	if err != nil {
		return nil, err
	}

	result := make([]DividendReceivable, 0, 64)
	for _, part := range parts {
		entries, err := DividendsFromPart(part)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("Portfolio", part.Meta(MetaPortfolio)).Int("NumEntries", len(entries)).Msg("read dividend receivable report part")
		result = append(result, entries...)
	}

	return result, nil
}

type dividendKey struct {
	portfolio     string
	periodEndDate string
	investment    string
}

// ConsolidateDividends sums the gross receivable of partial bookings of the
// same dividend event. Every member of a group must agree on the ex-date, the
// ex-date quantity and the local currency.
func ConsolidateDividends(entries []DividendReceivable) ([]DividendReceivable, error) {
	groups := make(map[dividendKey][]DividendReceivable)
	order := make([]dividendKey, 0, len(entries))

	for _, entry := range entries {
		key := dividendKey{
			portfolio:     entry.Portfolio,
			periodEndDate: entry.PeriodEndDate,
			investment:    entry.Investment,
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], entry)
	}

	result := make([]DividendReceivable, 0, len(order))
	for _, key := range order {
		group := groups[key]
		first := group[0]

		gross := make([]float64, 0, len(group))
		for _, member := range group[1:] {
			field := ""
			switch {
			case member.EXDate != first.EXDate:
				field = "EXDate"
			case member.ExDateQuantity != first.ExDateQuantity:
				field = "ExDateQuantity"
			case member.LocalCurrency != first.LocalCurrency:
				field = "LocalCurrency"
			}
			if field != "" {
				return nil, &InconsistentGroupError{
					Portfolio:  first.Portfolio,
					Investment: first.Investment,
					Field:      field,
				}
			}
		}

		for _, member := range group {
			if member.LocalGrossDividendRecPay.Valid {
				gross = append(gross, member.LocalGrossDividendRecPay.Value)
			}
		}

		merged := first
		switch len(gross) {
		case len(group):
			merged.LocalGrossDividendRecPay = Num(floats.Sum(gross))
		case 0:
			merged.LocalGrossDividendRecPay = NA
		default:
			return nil, &InconsistentGroupError{
				Portfolio:  first.Portfolio,
				Investment: first.Investment,
				Field:      "LocalGrossDividendRecPay",
			}
		}
		result = append(result, merged)
	}

	return result, nil
}
