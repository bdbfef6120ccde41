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
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

const CashAndEquivalents = "Cash and Equivalents"

// derivative asset types are reported one row per lot
var nonConsolidatable = map[string]bool{
	"Equity Option":        true,
	"FX Forward":           true,
	"FX Future":            true,
	"Index Future":         true,
	"Repurchase Agreement": true,
	"Right":                true,
}

// TaxLot is one row of the tax lot appraisal report, or the consolidated
// position of several lots of the same investment
type TaxLot struct {
	Portfolio     string `json:"Portfolio"`
	PeriodEndDate string `json:"PeriodEndDate"`
	KnowledgeDate string `json:"KnowledgeDate"`
	BookCurrency  string `json:"BookCurrency"`

	InvestID              string `json:"InvestID"`
	SortByDescription     string `json:"SortByDescription"`
	ThenByDescription     string `json:"ThenByDescription"`
	InvestmentDescription string `json:"InvestmentDescription"`
	TaxLotDescription     string `json:"TaxLotDescription"`
	TaxLotID              string `json:"TaxLotID"`
	TaxLotDate            string `json:"TaxLotDate"`

	Quantity                    Number `json:"Quantity"`
	OriginalFace                Number `json:"OriginalFace"`
	UnitCost                    Number `json:"UnitCost"`
	MarketPrice                 Number `json:"MarketPrice"`
	CostBook                    Number `json:"CostBook"`
	MarketValueBook             Number `json:"MarketValueBook"`
	UnrealizedPriceGainLossBook Number `json:"UnrealizedPriceGainLossBook"`
	UnrealizedFXGainLossBook    Number `json:"UnrealizedFXGainLossBook"`
	AccruedAmortBook            Number `json:"AccruedAmortBook"`
	AccruedInterestBook         Number `json:"AccruedInterestBook"`
}

// IsCash reports whether the lot is a cash balance
func (lot TaxLot) IsCash() bool {
	return lot.ThenByDescription == CashAndEquivalents
}

// Consolidatable is false for derivative asset types
func (lot TaxLot) Consolidatable() bool {
	return !nonConsolidatable[lot.ThenByDescription]
}

// Row renders the lot in TaxLotFields order
func (lot TaxLot) Row() []string {
	return []string{
		lot.Portfolio, lot.PeriodEndDate, lot.KnowledgeDate, lot.BookCurrency,
		lot.InvestID, lot.SortByDescription, lot.ThenByDescription,
		lot.InvestmentDescription, lot.TaxLotDescription, lot.TaxLotID,
		lot.TaxLotDate, lot.Quantity.String(), lot.OriginalFace.String(),
		lot.UnitCost.String(), lot.MarketPrice.String(), lot.CostBook.String(),
		lot.MarketValueBook.String(), lot.UnrealizedPriceGainLossBook.String(),
		lot.UnrealizedFXGainLossBook.String(), lot.AccruedAmortBook.String(),
		lot.AccruedInterestBook.String(),
	}
}

// InvestIDFromDescription extracts the security id Geneva embeds in an
// investment description, e.g. "Lenovo Group (992 HK)" yields "992 HK". The
// whole description is used when it has no parenthesized part.
func InvestIDFromDescription(description string) string {
	open := strings.Index(description, "(")
	end := strings.LastIndex(description, ")")
	if open < 0 || end <= open {
		return description
	}
	return description[open+1 : end]
}

// TaxLotsFromPart converts one part of the tax lot report without
// consolidating it
func TaxLotsFromPart(part ReportPart) ([]TaxLot, error) {
	if err := part.Require(MetaPortfolio, MetaPeriodEndDate, MetaKnowledgeDate, MetaBookCurrency); err != nil {
		return nil, err
	}

	lots := make([]TaxLot, 0, len(part.Records))
	err := applyRules(part, TaxLotRules, func(f Fields) {
		description := f.Text("InvestmentDescription")
		lots = append(lots, TaxLot{
			Portfolio:     part.Meta(MetaPortfolio),
			PeriodEndDate: part.Meta(MetaPeriodEndDate),
			KnowledgeDate: part.Meta(MetaKnowledgeDate),
			BookCurrency:  part.Meta(MetaBookCurrency),

			InvestID:              InvestIDFromDescription(description),
			SortByDescription:     f.Text("SortByDescription"),
			ThenByDescription:     f.Text("ThenByDescription"),
			InvestmentDescription: description,
			TaxLotDescription:     f.Text("TaxLotDescription"),
			TaxLotID:              f.Text("TaxLotID"),
			TaxLotDate:            f.Text("TaxLotDate"),

			Quantity:                    f.Number("Quantity"),
			OriginalFace:                f.Number("OriginalFace"),
			UnitCost:                    f.Number("UnitCost"),
			MarketPrice:                 f.Number("MarketPrice"),
			CostBook:                    f.Number("CostBook"),
			MarketValueBook:             f.Number("MarketValueBook"),
			UnrealizedPriceGainLossBook: f.Number("UnrealizedPriceGainLossBook"),
			UnrealizedFXGainLossBook:    f.Number("UnrealizedFXGainLossBook"),
			AccruedAmortBook:            f.Number("AccruedAmortBook"),
			AccruedInterestBook:         f.Number("AccruedInterestBook"),
		})
	})
	if err != nil {
		return nil, err
	}

	return lots, nil
}

// ReadTaxLots reads a multipart tax lot report and consolidates each
// portfolio's lots
func ReadTaxLots(r io.Reader, format Format) ([]TaxLot, error) {
	parts, err := ReadParts(r, format)
	if err != nil {
		return nil, err
	}

	result := make([]TaxLot, 0, 256)
	for _, part := range parts {
		lots, err := TaxLotsFromPart(part)
		if err != nil {
			return nil, err
		}

		consolidated, err := ConsolidateTaxLots(lots)
		if err != nil {
			return nil, err
		}

		log.Debug().Str("Portfolio", part.Meta(MetaPortfolio)).Int("NumLots", len(lots)).Int("NumPositions", len(consolidated)).Msg("read tax lot report part")
		result = append(result, consolidated...)
	}

	return result, nil
}

type lotKey struct {
	portfolio string
	investID  string
}

// ConsolidateTaxLots merges lots of the same investment into one position.
// Derivative lots pass through first, followed by one row per group in the
// order the groups were first seen. Fields that are not summed come from the
// first lot of the group.
func ConsolidateTaxLots(lots []TaxLot) ([]TaxLot, error) {
	result := make([]TaxLot, 0, len(lots))
	groups := make(map[lotKey][]TaxLot)
	order := make([]lotKey, 0, len(lots))

	for _, lot := range lots {
		if !lot.Consolidatable() {
			result = append(result, lot)
			continue
		}

		key := lotKey{portfolio: lot.Portfolio, investID: lot.InvestID}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], lot)
	}

	for _, key := range order {
		merged, err := consolidateGroup(groups[key])
		if err != nil {
			return nil, err
		}
		result = append(result, merged)
	}

	return result, nil
}

func consolidateGroup(group []TaxLot) (TaxLot, error) {
	merged := group[0]

	sums := []struct {
		name   string
		get    func(TaxLot) Number
		target *Number
	}{
		{"Quantity", func(l TaxLot) Number { return l.Quantity }, &merged.Quantity},
		{"CostBook", func(l TaxLot) Number { return l.CostBook }, &merged.CostBook},
		{"MarketValueBook", func(l TaxLot) Number { return l.MarketValueBook }, &merged.MarketValueBook},
		{"UnrealizedPriceGainLossBook", func(l TaxLot) Number { return l.UnrealizedPriceGainLossBook }, &merged.UnrealizedPriceGainLossBook},
		{"UnrealizedFXGainLossBook", func(l TaxLot) Number { return l.UnrealizedFXGainLossBook }, &merged.UnrealizedFXGainLossBook},
		{"AccruedAmortBook", func(l TaxLot) Number { return l.AccruedAmortBook }, &merged.AccruedAmortBook},
		{"AccruedInterestBook", func(l TaxLot) Number { return l.AccruedInterestBook }, &merged.AccruedInterestBook},
	}

	for _, field := range sums {
		total, err := sumGroup(group, field.name, field.get)
		if err != nil {
			return TaxLot{}, err
		}
		*field.target = total
	}

	unitCost, err := weightedUnitCost(group)
	if err != nil {
		return TaxLot{}, err
	}
	merged.UnitCost = unitCost

	if merged.IsCash() {
		merged.InvestmentDescription = merged.InvestID + " " + merged.Portfolio
	}

	return merged, nil
}

// sumGroup adds up a field across the group. A field that is NA on every
// member stays NA; a mix of NA and values cannot be summed.
func sumGroup(group []TaxLot, name string, get func(TaxLot) Number) (Number, error) {
	vals, err := groupValues(group, name, get)
	if err != nil || vals == nil {
		return NA, err
	}
	return Num(floats.Sum(vals)), nil
}

func groupValues(group []TaxLot, name string, get func(TaxLot) Number) ([]float64, error) {
	vals := make([]float64, 0, len(group))
	for _, lot := range group {
		n := get(lot)
		if n.Valid {
			vals = append(vals, n.Value)
		}
	}

	switch len(vals) {
	case len(group):
		return vals, nil
	case 0:
		return nil, nil
	default:
		return nil, &InconsistentGroupError{
			Portfolio:  group[0].Portfolio,
			Investment: group[0].InvestID,
			Field:      name,
		}
	}
}

// weightedUnitCost is the quantity weighted mean of the members' unit cost,
// or the first member's unit cost when the quantities net to zero
func weightedUnitCost(group []TaxLot) (Number, error) {
	quantities, err := groupValues(group, "Quantity", func(l TaxLot) Number { return l.Quantity })
	if err != nil {
		return NA, err
	}

	costs, err := groupValues(group, "UnitCost", func(l TaxLot) Number { return l.UnitCost })
	if err != nil {
		return NA, err
	}

	if quantities == nil || costs == nil {
		return group[0].UnitCost, nil
	}

	total := floats.Sum(quantities)
	if total == 0 {
		return group[0].UnitCost, nil
	}

	return Num(floats.Dot(quantities, costs) / total), nil
}
