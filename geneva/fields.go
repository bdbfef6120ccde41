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
	"github.com/pkg/errors"
)

// Output column order per report kind

var TaxLotFields = []string{
	"Portfolio", "PeriodEndDate", "KnowledgeDate", "BookCurrency", "InvestID",
	"SortByDescription", "ThenByDescription", "InvestmentDescription",
	"TaxLotDescription", "TaxLotID", "TaxLotDate", "Quantity", "OriginalFace",
	"UnitCost", "MarketPrice", "CostBook", "MarketValueBook",
	"UnrealizedPriceGainLossBook", "UnrealizedFXGainLossBook",
	"AccruedAmortBook", "AccruedInterestBook",
}

var CashLedgerFields = []string{
	"Portfolio", "PeriodStartDate", "PeriodEndDate", "KnowledgeDate", "BookCurrency",
	"Currency_OpeningBalDesc", "CurrBegBalLocal", "CurrBegBalBook",
	"GroupWithinCurrency_OpeningBalDesc", "GroupWithinCurrencyBegBalLoc",
	"GroupWithinCurrencyBegBalBook", "CashDate", "TradeDate", "SettleDate",
	"TransID", "TranDescription", "Investment", "Quantity", "Price",
	"LocalAmount", "LocalBalance", "BookAmount", "BookBalance",
	"GroupWithinCurrency_ClosingBalDesc", "GroupWithinCurrencyClosingBalLoc",
	"GroupWithinCurrencyClosingBalBook", "Currency_ClosingBalDesc",
	"CurrClosingBalLocal", "CurrClosingBalBook",
}

var DividendReceivableFields = []string{
	"Portfolio", "PeriodEndDate", "KnowledgeDate", "BookCurrency",
	"SortByDescription", "LocalAccountingName", "Currency", "Textbox96",
	"Investment", "TransID", "EXDate", "ExDateQuantity", "LocalCurrency",
	"LocalGrossDividendRecPay", "WHTaxRate", "LocalWHTaxPayable",
	"LocalNetDividendRecPay", "BookGrossDividendRecPay", "BookWHTaxPayable",
	"BookNetDividendRecPay", "UnrealizedFXGainLoss", "PayDate",
	"LocalPerShareAmount", "LocalReclaimReceivable", "BookReclaimReceivable",
	"LocalReliefReceivable", "BookReliefReceivable",
}

var PurchaseSaleFields = []string{
	"Portfolio", "PeriodStartDate", "PeriodEndDate", "KnowledgeDate", "BookCurrency",
	"TranType", "TranID", "InvestID", "Investment", "TradeDate", "SettleDate",
	"Quantity", "Price", "LocalCurrency", "LocalAmount", "Commission",
	"Expenses", "Broker",
}

// Coercion rules per report kind

var TaxLotRules = FieldRules{
	Numbers: []string{
		"Quantity", "OriginalFace", "UnitCost", "MarketPrice", "CostBook",
		"MarketValueBook", "UnrealizedPriceGainLossBook",
		"UnrealizedFXGainLossBook", "AccruedAmortBook", "AccruedInterestBook",
	},
}

var CashLedgerRules = FieldRules{
	Numbers: []string{
		"CurrBegBalLocal", "CurrBegBalBook", "GroupWithinCurrencyBegBalLoc",
		"GroupWithinCurrencyBegBalBook", "Quantity", "Price", "LocalAmount",
		"LocalBalance", "BookAmount", "BookBalance",
		"GroupWithinCurrencyClosingBalLoc", "GroupWithinCurrencyClosingBalBook",
		"CurrClosingBalLocal", "CurrClosingBalBook",
	},
	Dates: []string{"CashDate", "TradeDate", "SettleDate"},
}

var DividendReceivableRules = FieldRules{
	Numbers: []string{
		"ExDateQuantity", "LocalGrossDividendRecPay", "LocalWHTaxPayable",
		"LocalNetDividendRecPay", "BookGrossDividendRecPay", "BookWHTaxPayable",
		"BookNetDividendRecPay", "UnrealizedFXGainLoss", "LocalPerShareAmount",
		"LocalReclaimReceivable", "BookReclaimReceivable",
		"LocalReliefReceivable", "BookReliefReceivable",
	},
	Dates:    []string{"EXDate", "PayDate"},
	Percents: []string{"WHTaxRate"},
}

var PurchaseSaleRules = FieldRules{
	Numbers: []string{"Quantity", "Price", "LocalAmount", "Commission", "Expenses"},
	Dates:   []string{"TradeDate", "SettleDate"},
}

// applyRules runs rules over every record of part and reports failures
// against the source line of the offending row
func applyRules(part ReportPart, rules FieldRules, fn func(Fields)) error {
	for idx, rec := range part.Records {
		fields, err := rules.Apply(rec)
		if err != nil {
			return atLine(err, part.Lines[idx])
		}
		fn(fields)
	}
	return nil
}

func atLine(err error, line int) error {
	var malformed *MalformedReportError
	if errors.As(err, &malformed) && malformed.Line == 0 {
		return &MalformedReportError{Line: line, Reason: malformed.Reason}
	}
	return errors.Wrapf(err, "line %d", line)
}
