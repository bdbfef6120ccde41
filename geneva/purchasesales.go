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

const (
	TranTypeBuy    = "Buy"
	TranTypeSell   = "Sell"
	TranTypeSpotFX = "SpotFX"
)

// PurchaseSale is one trade of the purchase and sales report
type PurchaseSale struct {
	Portfolio       string `json:"Portfolio"`
	PeriodStartDate string `json:"PeriodStartDate"`
	PeriodEndDate   string `json:"PeriodEndDate"`
	KnowledgeDate   string `json:"KnowledgeDate"`
	BookCurrency    string `json:"BookCurrency"`

	TranType      string `json:"TranType"`
	TranID        string `json:"TranID"`
	InvestID      string `json:"InvestID"`
	Investment    string `json:"Investment"`
	TradeDate     string `json:"TradeDate"`
	SettleDate    string `json:"SettleDate"`
	Quantity      Number `json:"Quantity"`
	Price         Number `json:"Price"`
	LocalCurrency string `json:"LocalCurrency"`
	LocalAmount   Number `json:"LocalAmount"`
	Commission    Number `json:"Commission"`
	Expenses      Number `json:"Expenses"`
	Broker        string `json:"Broker"`
}

// Row renders the trade in PurchaseSaleFields order
func (p PurchaseSale) Row() []string {
	return []string{
		p.Portfolio, p.PeriodStartDate, p.PeriodEndDate, p.KnowledgeDate, p.BookCurrency,
		p.TranType, p.TranID, p.InvestID, p.Investment, p.TradeDate, p.SettleDate,
		p.Quantity.String(), p.Price.String(), p.LocalCurrency, p.LocalAmount.String(),
		p.Commission.String(), p.Expenses.String(), p.Broker,
	}
}

// PurchaseSalesFromPart converts one part of the purchase and sales report.
// When the report has no InvestID column the id is taken from the investment
// description.
func PurchaseSalesFromPart(part ReportPart) ([]PurchaseSale, error) {
	trades := make([]PurchaseSale, 0, len(part.Records))
	err := applyRules(part, PurchaseSaleRules, func(f Fields) {
		investID := f.Text("InvestID")
		if investID == "" {
			investID = InvestIDFromDescription(f.Text("Investment"))
		}

		trades = append(trades, PurchaseSale{
			Portfolio:       part.Meta(MetaPortfolio),
			PeriodStartDate: part.Meta(MetaPeriodStartDate),
			PeriodEndDate:   part.Meta(MetaPeriodEndDate),
			KnowledgeDate:   part.Meta(MetaKnowledgeDate),
			BookCurrency:    part.Meta(MetaBookCurrency),

			TranType:      f.Text("TranType"),
			TranID:        f.Text("TranID"),
			InvestID:      investID,
			Investment:    f.Text("Investment"),
			TradeDate:     f.Date("TradeDate"),
			SettleDate:    f.Date("SettleDate"),
			Quantity:      f.Number("Quantity"),
			Price:         f.Number("Price"),
			LocalCurrency: f.Text("LocalCurrency"),
			LocalAmount:   f.Number("LocalAmount"),
			Commission:    f.Number("Commission"),
			Expenses:      f.Number("Expenses"),
			Broker:        f.Text("Broker"),
		})
	})
	if err != nil {
		return nil, err
	}

	return trades, nil
}

// ReadPurchaseSales reads every part of a multipart purchase and sales report
func ReadPurchaseSales(r io.Reader, format Format) ([]PurchaseSale, error) {
	parts, err := ReadParts(r, format)
	if err != nil {
		return nil, err
	}

	result := make([]PurchaseSale, 0, 64)
	for _, part := range parts {
		trades, err := PurchaseSalesFromPart(part)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("Portfolio", part.Meta(MetaPortfolio)).Int("NumTrades", len(trades)).Msg("read purchase sales report part")
		result = append(result, trades...)
	}

	return result, nil
}
