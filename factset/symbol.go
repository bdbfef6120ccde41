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

import (
	"strings"
)

// Security is the security master entry of one Geneva investment
type Security struct {
	InvestID       string `toml:"invest_id" json:"InvestID"`
	Description    string `toml:"description" json:"Description"`
	AssetType      string `toml:"asset_type" json:"AssetType"`
	InvestmentType string `toml:"investment_type" json:"InvestmentType"`
	ISIN           string `toml:"isin" json:"ISIN"`
	SEDOL          string `toml:"sedol" json:"SEDOL"`
	LocalCurrency  string `toml:"local_currency" json:"LocalCurrency"`
}

// SecurityMaster looks up reference data by InvestID
type SecurityMaster interface {
	Security(investID string) (Security, bool)
}

// PortfolioDirectory maps a portfolio code to its display name
type PortfolioDirectory interface {
	PortfolioName(code string) (string, bool)
}

// RateSource converts one unit of currency into target
type RateSource interface {
	Rate(date, portfolio, currency, target string) (float64, error)
}

const cashSymbolPrefix = "CASH_ZERO_"

// ExchangeLocation maps the market suffix of an InvestID ("1088 HK") to the
// FactSet exchange location code
func ExchangeLocation(investID string) (string, error) {
	tokens := strings.Fields(investID)
	if len(tokens) == 0 {
		return "", &UnsupportedSymbolError{InvestID: investID, Reason: "empty investment id"}
	}

	switch suffix := tokens[len(tokens)-1]; suffix {
	case "C1", "C2", "CH":
		return "CN", nil
	case "HK", "US":
		return suffix, nil
	case "SP":
		return "SG", nil
	default:
		return "", &UnsupportedSymbolError{InvestID: investID, Reason: "unknown exchange suffix " + suffix}
	}
}

// Symbol builds the FactSet position symbol for a security
func Symbol(sec Security, class Classification) (string, error) {
	switch class.Class {
	case ClassCash:
		return cashSymbolPrefix + sec.InvestID, nil
	case ClassEquity, ClassFunds:
		code := sec.ISIN
		if code == "" {
			code = sec.SEDOL
		}
		if code == "" {
			return "", &UnsupportedSymbolError{InvestID: sec.InvestID, Reason: "no ISIN or SEDOL"}
		}

		location, err := ExchangeLocation(sec.InvestID)
		if err != nil {
			return "", err
		}
		return code + "-" + location, nil
	default:
		return "", &UnsupportedSymbolError{InvestID: sec.InvestID, Reason: "unsupported asset class " + string(class.Class)}
	}
}

// transactionSymbol is the SEDOL of an equity. Other asset classes are not
// exported as transactions.
func transactionSymbol(sec Security, class Classification) (string, error) {
	if class.Class != ClassEquity {
		return "", &UnsupportedSymbolError{InvestID: sec.InvestID, Reason: "transactions are only supported for equities"}
	}
	if sec.SEDOL == "" {
		return "", &UnsupportedSymbolError{InvestID: sec.InvestID, Reason: "no SEDOL"}
	}
	return sec.SEDOL, nil
}
