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

const (
	TradeTypeIncome = "IN"
	TradeTypeBuy    = "BL"
	TradeTypeSell   = "SL"

	StatusAccounted = "ACCT"
)

// TransactionFields is the column order of the FactSet transaction upload
var TransactionFields = []string{
	"Portfolio Code", "Date", "Symbol", "Asset Class", "Asset Type",
	"Transaction ID", "Transaction Status", "Trade Type", "Price ISO",
	"Quantity", "Price", "Gross Transaction Amount", "Net Transaction Amount",
	"Commissions and Fees", "Settle Date", "Broker",
}

// Transaction is one row of the FactSet transaction upload. Income
// transactions have no quantity or price.
type Transaction struct {
	PortfolioCode          string        `json:"Portfolio Code"`
	Date                   string        `json:"Date"`
	Symbol                 string        `json:"Symbol"`
	AssetClass             AssetClass    `json:"Asset Class"`
	AssetType              string        `json:"Asset Type"`
	TransactionID          string        `json:"Transaction ID"`
	TransactionStatus      string        `json:"Transaction Status"`
	TradeType              string        `json:"Trade Type"`
	PriceISO               string        `json:"Price ISO"`
	Quantity               geneva.Number `json:"Quantity"`
	Price                  geneva.Number `json:"Price"`
	GrossTransactionAmount geneva.Number `json:"Gross Transaction Amount"`
	NetTransactionAmount   geneva.Number `json:"Net Transaction Amount"`
	CommissionsAndFees     geneva.Number `json:"Commissions and Fees"`
	SettleDate             string        `json:"Settle Date"`
	Broker                 string        `json:"Broker"`
}

func blankNA(n geneva.Number) string {
	if !n.Valid {
		return ""
	}
	return n.String()
}

// Row renders the transaction in TransactionFields order
func (t Transaction) Row() []string {
	return []string{
		t.PortfolioCode, t.Date, t.Symbol, string(t.AssetClass), t.AssetType,
		t.TransactionID, t.TransactionStatus, t.TradeType, t.PriceISO,
		blankNA(t.Quantity), blankNA(t.Price), t.GrossTransactionAmount.String(),
		t.NetTransactionAmount.String(), t.CommissionsAndFees.String(),
		t.SettleDate, t.Broker,
	}
}

// cash ledger descriptions handled as income
var incomeDescriptions = map[string]bool{
	"Dividend":            true,
	"GrossAmountDividend": true,
	"ReturnOfCap":         true,
}

var ignoredDescriptions = map[string]bool{
	"AccountingRelated": true,
}

// trades are exported from the purchase and sales report, not the ledger
var tradeDescriptions = map[string]bool{
	geneva.TranTypeBuy:    true,
	geneva.TranTypeSell:   true,
	geneva.TranTypeSpotFX: true,
}

var currencyPrefixes = []struct {
	prefix string
	code   string
}{
	{"chinese renminbi yuan", "CNY"},
	{"hong kong dollar", "HKD"},
	{"united states dollar", "USD"},
}

// CurrencyFromDescription maps a cash ledger currency description such as
// "Hong Kong Dollar" to its ISO code
func CurrencyFromDescription(description string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(description))
	for _, c := range currencyPrefixes {
		if strings.HasPrefix(lower, c.prefix) {
			return c.code, nil
		}
	}
	return "", &ReferenceNotFoundError{Kind: "currency", Key: description}
}

// CashLedgerTransactions exports dividend and return of capital entries of
// the cash ledger. Balance lines, accounting entries and trades are skipped.
func (m *Mapper) CashLedgerTransactions(entries []geneva.CashLedgerEntry) ([]Transaction, error) {
	result := make([]Transaction, 0, len(entries))
	for _, entry := range entries {
		desc := entry.TranDescription
		switch {
		case desc == "", ignoredDescriptions[desc], tradeDescriptions[desc]:
			continue
		case incomeDescriptions[desc]:
			txn, err := m.incomeTransaction(entry)
			if err != nil {
				return nil, err
			}
			result = append(result, txn)
		default:
			err := &UnsupportedTransactionError{Portfolio: entry.Portfolio, TransID: entry.TransID, Description: desc}
			log.Error().Err(err).Msg("cannot export cash ledger entry")
			return nil, err
		}
	}
	return result, nil
}

func (m *Mapper) incomeTransaction(entry geneva.CashLedgerEntry) (Transaction, error) {
	investID := geneva.InvestIDFromDescription(entry.Investment)
	subLog := log.With().Str("Portfolio", entry.Portfolio).Str("TransID", entry.TransID).Str("InvestID", investID).Logger()

	sec, class, err := m.security(investID)
	if err != nil {
		subLog.Error().Err(err).Msg("could not classify income transaction")
		return Transaction{}, err
	}

	symbol, err := transactionSymbol(sec, class)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build symbol")
		return Transaction{}, err
	}

	currency, err := CurrencyFromDescription(entry.CurrencyClosingBalDesc)
	if err != nil {
		subLog.Error().Err(err).Msg("unknown currency")
		return Transaction{}, err
	}

	return Transaction{
		PortfolioCode:          entry.Portfolio,
		Date:                   compactDate(entry.CashDate),
		Symbol:                 symbol,
		AssetClass:             class.Class,
		AssetType:              class.Type,
		TransactionID:          entry.Portfolio + "_" + entry.TransID,
		TransactionStatus:      StatusAccounted,
		TradeType:              TradeTypeIncome,
		PriceISO:               currency,
		Quantity:               geneva.NA,
		Price:                  geneva.NA,
		GrossTransactionAmount: entry.LocalAmount,
		NetTransactionAmount:   entry.LocalAmount,
		CommissionsAndFees:     geneva.Num(0),
		SettleDate:             compactDate(entry.CashDate),
	}, nil
}

// PurchaseSaleTransactions exports every trade of the purchase and sales
// report
func (m *Mapper) PurchaseSaleTransactions(trades []geneva.PurchaseSale) ([]Transaction, error) {
	result := make([]Transaction, 0, len(trades))
	for _, trade := range trades {
		var (
			txn Transaction
			err error
		)

		switch trade.TranType {
		case geneva.TranTypeBuy, geneva.TranTypeSell:
			txn, err = m.tradeTransaction(trade)
		case geneva.TranTypeSpotFX:
			txn, err = m.spotFXTransaction(trade)
		default:
			err = &UnsupportedTransactionError{Portfolio: trade.Portfolio, TransID: trade.TranID, Description: trade.TranType}
			log.Error().Err(err).Msg("cannot export trade")
		}
		if err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	return result, nil
}

func baseTradeTransaction(trade geneva.PurchaseSale, class Classification) Transaction {
	return Transaction{
		PortfolioCode:      trade.Portfolio,
		Date:               compactDate(trade.TradeDate),
		AssetClass:         class.Class,
		AssetType:          class.Type,
		TransactionID:      trade.Portfolio + "_" + trade.TranID,
		TransactionStatus:  StatusAccounted,
		PriceISO:           trade.LocalCurrency,
		Quantity:           trade.Quantity,
		CommissionsAndFees: trade.Commission.Add(trade.Expenses),
		SettleDate:         compactDate(trade.SettleDate),
		Broker:             trade.Broker,
	}
}

func (m *Mapper) tradeTransaction(trade geneva.PurchaseSale) (Transaction, error) {
	subLog := log.With().Str("Portfolio", trade.Portfolio).Str("TranID", trade.TranID).Str("InvestID", trade.InvestID).Logger()

	sec, class, err := m.security(trade.InvestID)
	if err != nil {
		subLog.Error().Err(err).Msg("could not classify trade")
		return Transaction{}, err
	}

	symbol, err := transactionSymbol(sec, class)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build symbol")
		return Transaction{}, err
	}

	txn := baseTradeTransaction(trade, class)
	txn.Symbol = symbol
	txn.Price = trade.Price

	amount := trade.LocalAmount.Abs()
	fees := txn.CommissionsAndFees
	if trade.TranType == geneva.TranTypeBuy {
		txn.TradeType = TradeTypeBuy
		txn.GrossTransactionAmount = amount
		txn.NetTransactionAmount = amount.Sub(fees)
	} else {
		txn.TradeType = TradeTypeSell
		txn.GrossTransactionAmount = amount.Sub(fees)
		txn.NetTransactionAmount = amount
	}

	return txn, nil
}

// spotFXTransaction books a currency purchase against the cash position of
// the bought currency, priced in units of that currency
func (m *Mapper) spotFXTransaction(trade geneva.PurchaseSale) (Transaction, error) {
	_, class, err := m.security(trade.InvestID)
	if err != nil {
		log.Error().Err(err).Str("Portfolio", trade.Portfolio).Str("TranID", trade.TranID).Msg("could not classify spot fx trade")
		return Transaction{}, err
	}

	txn := baseTradeTransaction(trade, class)
	txn.Symbol = cashSymbolPrefix + trade.InvestID
	txn.TradeType = TradeTypeBuy
	txn.Price = geneva.Num(1).Div(trade.Price)
	txn.GrossTransactionAmount = trade.LocalAmount
	txn.NetTransactionAmount = trade.LocalAmount.Sub(txn.CommissionsAndFees)

	return txn, nil
}
