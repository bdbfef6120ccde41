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

	"github.com/penny-vault/pv-geneva/geneva"
	"github.com/rs/zerolog/log"
)

const StrategyAvailableForSale = "AFS"

// PositionFields is the column order of the FactSet position upload
var PositionFields = []string{
	"Portfolio Name", "Portfolio Description", "Date", "Symbol", "Security Name",
	"Asset Class", "Asset Type", "Shares", "Price", "Price ISO",
	"Per Share Accrued Interest", "Per Share Principal", "Per Share Income",
	"Total Cost", "Contract Size", "Underlying ID", "Ending Market Value",
	"Strategy", "Average Cumulative Cost",
}

// Position is one row of the FactSet position upload
type Position struct {
	PortfolioName           string        `json:"Portfolio Name"`
	PortfolioDescription    string        `json:"Portfolio Description"`
	Date                    string        `json:"Date"`
	Symbol                  string        `json:"Symbol"`
	SecurityName            string        `json:"Security Name"`
	AssetClass              AssetClass    `json:"Asset Class"`
	AssetType               string        `json:"Asset Type"`
	Shares                  geneva.Number `json:"Shares"`
	Price                   geneva.Number `json:"Price"`
	PriceISO                string        `json:"Price ISO"`
	PerShareAccruedInterest geneva.Number `json:"Per Share Accrued Interest"`
	PerSharePrincipal       geneva.Number `json:"Per Share Principal"`
	PerShareIncome          geneva.Number `json:"Per Share Income"`
	TotalCost               geneva.Number `json:"Total Cost"`
	ContractSize            geneva.Number `json:"Contract Size"`
	UnderlyingID            string        `json:"Underlying ID"`
	EndingMarketValue       geneva.Number `json:"Ending Market Value"`
	Strategy                string        `json:"Strategy"`
	AverageCumulativeCost   geneva.Number `json:"Average Cumulative Cost"`
}

// Row renders the position in PositionFields order
func (p Position) Row() []string {
	return []string{
		p.PortfolioName, p.PortfolioDescription, p.Date, p.Symbol, p.SecurityName,
		string(p.AssetClass), p.AssetType, p.Shares.String(), p.Price.String(), p.PriceISO,
		p.PerShareAccruedInterest.String(), p.PerSharePrincipal.String(),
		p.PerShareIncome.String(), p.TotalCost.String(), p.ContractSize.String(),
		p.UnderlyingID, p.EndingMarketValue.String(), p.Strategy,
		p.AverageCumulativeCost.String(),
	}
}

// Mapper turns Geneva records into FactSet upload records
type Mapper struct {
	securities SecurityMaster
	portfolios PortfolioDirectory
	rates      RateSource
}

func NewMapper(securities SecurityMaster, portfolios PortfolioDirectory, rates RateSource) *Mapper {
	return &Mapper{
		securities: securities,
		portfolios: portfolios,
		rates:      rates,
	}
}

// compactDate renders yyyy-mm-dd as yyyymmdd
func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

func (m *Mapper) security(investID string) (Security, Classification, error) {
	sec, ok := m.securities.Security(investID)
	if !ok {
		return Security{}, Classification{}, &ReferenceNotFoundError{Kind: "security", Key: investID}
	}
	if sec.InvestID == "" {
		sec.InvestID = investID
	}

	class, err := Classify(sec.InvestmentType)
	if err != nil {
		return Security{}, Classification{}, err
	}
	return sec, class, nil
}

func (m *Mapper) portfolioName(code string) (string, error) {
	name, ok := m.portfolios.PortfolioName(code)
	if !ok {
		return "", &ReferenceNotFoundError{Kind: "portfolio", Key: code}
	}
	return name, nil
}

// Position maps one consolidated tax lot position. receivable is the
// consolidated dividend receivable of the same investment, or nil.
func (m *Mapper) Position(lot geneva.TaxLot, receivable *geneva.DividendReceivable) (Position, error) {
	subLog := log.With().Str("Portfolio", lot.Portfolio).Str("InvestID", lot.InvestID).Logger()

	sec, class, err := m.security(lot.InvestID)
	if err != nil {
		subLog.Error().Err(err).Msg("could not classify position")
		return Position{}, err
	}

	description, err := m.portfolioName(lot.Portfolio)
	if err != nil {
		subLog.Error().Err(err).Msg("unknown portfolio")
		return Position{}, err
	}

	symbol, err := Symbol(sec, class)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build symbol")
		return Position{}, err
	}

	position := Position{
		PortfolioName:           lot.Portfolio,
		PortfolioDescription:    description,
		Date:                    compactDate(lot.PeriodEndDate),
		Symbol:                  symbol,
		SecurityName:            sec.Description,
		AssetClass:              class.Class,
		AssetType:               class.Type,
		Shares:                  lot.Quantity,
		PerShareAccruedInterest: geneva.Num(0),
		PerSharePrincipal:       geneva.Num(0),
		PerShareIncome:          geneva.Num(0),
		ContractSize:            geneva.NA,
	}

	if class.IsCash() {
		position.Price = geneva.Num(1)
		position.PriceISO = lot.InvestID
		position.EndingMarketValue = lot.Quantity
		position.TotalCost = lot.Quantity
		position.AverageCumulativeCost = geneva.Num(1)
		return position, nil
	}

	position.Price = lot.MarketPrice
	position.PriceISO = sec.LocalCurrency
	position.EndingMarketValue = lot.Quantity.Mul(lot.MarketPrice)
	position.TotalCost = lot.Quantity.Mul(lot.UnitCost)
	position.AverageCumulativeCost = lot.UnitCost
	position.Strategy = StrategyAvailableForSale

	if receivable != nil && lot.Quantity.Valid && lot.Quantity.Value != 0 {
		rate, err := m.rates.Rate(lot.PeriodEndDate, lot.Portfolio, receivable.LocalCurrency, position.PriceISO)
		if err != nil {
			subLog.Error().Err(err).Str("Currency", receivable.LocalCurrency).Msg("could not convert dividend receivable")
			return Position{}, err
		}
		position.PerShareIncome = receivable.LocalGrossDividendRecPay.Mul(geneva.Num(rate)).Div(lot.Quantity)
	}

	return position, nil
}

type receivableKey struct {
	portfolio string
	investID  string
}

// Positions maps tax lot positions, matching each with the consolidated
// dividend receivable of the same portfolio and investment
func (m *Mapper) Positions(lots []geneva.TaxLot, receivables []geneva.DividendReceivable) ([]Position, error) {
	index := make(map[receivableKey]*geneva.DividendReceivable, len(receivables))
	for idx := range receivables {
		key := receivableKey{portfolio: receivables[idx].Portfolio, investID: receivables[idx].InvestID()}
		if _, ok := index[key]; !ok {
			index[key] = &receivables[idx]
		}
	}

	positions := make([]Position, 0, len(lots))
	for _, lot := range lots {
		position, err := m.Position(lot, index[receivableKey{portfolio: lot.Portfolio, investID: lot.InvestID}])
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, nil
}
