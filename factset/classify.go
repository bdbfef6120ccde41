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

package factset

// AssetClass is the top level FactSet asset classification
type AssetClass string

const (
	ClassCash   AssetClass = "Cash"
	ClassEquity AssetClass = "Equity"
	ClassFunds  AssetClass = "Funds"
)

// Classification is a FactSet (asset class, asset type) pair
type Classification struct {
	Class AssetClass
	Type  string
}

var (
	ZeroInterestCash   = Classification{Class: ClassCash, Type: "Zero Interest Cash"}
	ADR                = Classification{Class: ClassEquity, Type: "ADR"}
	EquityCommon       = Classification{Class: ClassEquity, Type: "Equity Common"}
	Preferred          = Classification{Class: ClassEquity, Type: "Preferred"}
	CloseEndedFund     = Classification{Class: ClassFunds, Type: "Close Ended Fund"}
	MutualFund         = Classification{Class: ClassFunds, Type: "Mutual Fund"}
	ExchangeTradedFund = Classification{Class: ClassFunds, Type: "Exchange Traded Fund"}
	REIT               = Classification{Class: ClassFunds, Type: "REIT"}
)

// keyed by the Geneva investment type description
var classifications = map[string]Classification{
	"Cash and Equivalents":         ZeroInterestCash,
	"American Depository Receipt":  ADR,
	"Common Stock":                 EquityCommon,
	"Stapled Security":             EquityCommon,
	"Preferred Stock":              Preferred,
	"Closed End Fund":              CloseEndedFund,
	"Open-End Fund":                MutualFund,
	"Exchange Trade Fund":          ExchangeTradedFund,
	"Real Estate Investment Trust": REIT,
}

// Classify maps a Geneva investment type to its FactSet classification.
// Types outside the known set are an error, never a guess.
func Classify(investmentType string) (Classification, error) {
	if c, ok := classifications[investmentType]; ok {
		return c, nil
	}
	return Classification{}, &UnsupportedAssetTypeError{InvestmentType: investmentType}
}

func (c Classification) IsCash() bool {
	return c.Class == ClassCash
}
