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

package reporthelper

import (
	"fmt"
	"strconv"
	"strings"
)

// File names used by the fixtures for 2021-03-31
const (
	TaxLotFile         = "all funds tax lot 2021-03-31.txt"
	CashLedgerFile     = "all funds cash ledger 2021-03-01 2021-03-31.txt"
	DividendFile       = "all funds dividend receivable 2021-03-31.txt"
	PurchaseSalesFile  = "all funds purchase sales 2021-03-01 2021-03-31.txt"
	NumSingleHoldings  = 113
	FirstSingleHolding = 2000
)

var TaxLotHeader = []string{
	"SortByDescription", "ThenByDescription", "InvestmentDescription",
	"TaxLotDescription", "TaxLotID", "TaxLotDate", "Quantity", "OriginalFace",
	"UnitCost", "MarketPrice", "CostBook", "MarketValueBook",
	"UnrealizedPriceGainLossBook", "UnrealizedFXGainLossBook",
	"AccruedAmortBook", "AccruedInterestBook",
}

var DividendHeader = []string{
	"SortByDescription", "LocalAccountingName", "Currency", "Textbox96",
	"Investment", "TransID", "EXDate", "ExDateQuantity", "LocalCurrency",
	"LocalGrossDividendRecPay", "WHTaxRate", "LocalWHTaxPayable",
	"LocalNetDividendRecPay", "BookGrossDividendRecPay", "BookWHTaxPayable",
	"BookNetDividendRecPay", "UnrealizedFXGainLoss", "PayDate",
	"LocalPerShareAmount", "LocalReclaimReceivable", "BookReclaimReceivable",
	"LocalReliefReceivable", "BookReliefReceivable",
}

var CashLedgerHeader = []string{
	"Currency_OpeningBalDesc", "CurrBegBalLocal", "CurrBegBalBook",
	"GroupWithinCurrency_OpeningBalDesc", "GroupWithinCurrencyBegBalLoc",
	"GroupWithinCurrencyBegBalBook", "CashDate", "TradeDate", "SettleDate",
	"TransID", "TranDescription", "Investment", "Quantity", "Price",
	"LocalAmount", "LocalBalance", "BookAmount", "BookBalance",
	"GroupWithinCurrency_ClosingBalDesc", "GroupWithinCurrencyClosingBalLoc",
	"GroupWithinCurrencyClosingBalBook", "Currency_ClosingBalDesc",
	"CurrClosingBalLocal", "CurrClosingBalBook",
}

var PurchaseSalesHeader = []string{
	"TranType", "TranID", "InvestID", "Investment", "TradeDate", "SettleDate",
	"Quantity", "Price", "LocalCurrency", "LocalAmount", "Commission",
	"Expenses", "Broker",
}

// Quote renders a cell the way Geneva writes numbers with separators
func Quote(s string) string {
	return `"` + s + `"`
}

// Row lays values out in header order; absent columns are empty
func Row(header []string, values map[string]string) []string {
	row := make([]string, len(header))
	for idx, name := range header {
		row[idx] = values[name]
	}
	return row
}

func TaxLotMeta(portfolio, bookCurrency string) []Meta {
	return []Meta{
		{"Portfolio", portfolio},
		{"Period End Date", "03/31/2021"},
		{"Knowledge Date", "04/13/2021 14:25"},
		{"Book Currency", bookCurrency},
	}
}

func PeriodMeta(portfolio, bookCurrency string) []Meta {
	return []Meta{
		{"Portfolio", portfolio},
		{"Period Start Date", "03/01/2021"},
		{"Period End Date", "03/31/2021"},
		{"Knowledge Date", "04/13/2021 14:25"},
		{"Book Currency", bookCurrency},
	}
}

func cashLot(description, lotID, quantity, price string) []string {
	return []string{
		"Cash and Equivalents", "Cash and Equivalents", description, description,
		lotID, "03/31/2021", quantity, "", "1", price, quantity, quantity, "0", "0", "0", "0",
	}
}

func equityLot(thenBy, description, lotID, quantity, unitCost, price, costBook, marketValue, priceGain, fxGain string) []string {
	return []string{
		"Equity", thenBy, description, description, lotID, "01/15/2021",
		quantity, "", unitCost, price, costBook, marketValue, priceGain, fxGain, "0", "0",
	}
}

// SingleHoldingID is the InvestID of the i-th single lot holding of 12307
func SingleHoldingID(i int) string {
	return fmt.Sprintf("%d HK", FirstSingleHolding+i)
}

func singleHoldingDescription(i int) string {
	return fmt.Sprintf("Holding %03d Ltd (%s)", i, SingleHoldingID(i))
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

// TaxLotReport reproduces the shape of the 2021-03-31 tax lot appraisal:
// portfolio 12307 (book USD) has 7 cash currencies and 114 holdings once
// lots are consolidated, portfolio 40006 (book HKD) holds derivatives that
// are never consolidated.
func TaxLotReport() *Report {
	lots12307 := [][]string{
		cashLot("Chinese Renminbi Yuan (CNY)", "1", Quote("1,250,000.00"), "0.1521"),
		cashLot("Hong Kong Dollar (HKD)", "2", Quote("-80,100,151.41"), "0.128626"),
		cashLot("United States Dollar (USD)", "3", Quote("2,345,678.90"), "1"),
		cashLot("Singapore Dollar (SGD)", "4", Quote("10,000.00"), "0.744"),
		cashLot("Euro (EUR)", "5", "5000.00", "1.173"),
		cashLot("Japanese Yen (JPY)", "6", Quote("1,000,000.00"), "0.009036"),
		cashLot("British Pound (GBP)", "7", "2000.00", "1.3784"),
		cashLot("Hong Kong Dollar (HKD)", "8", Quote("50,000.00"), "0.128626"),
		equityLot("Common Stock", "China Shenhua Energy Co Ltd-H (1088 HK)", "1001",
			Quote("500,000.00"), "14.5", "16.02", Quote("932,600.17"), Quote("1,030,300.00"),
			Quote("100,000.50"), Quote("4,206.20")),
	}

	for i := 0; i < NumSingleHoldings; i++ {
		quantity := float64(1000 * (i + 1))
		lots12307 = append(lots12307, equityLot("Common Stock", singleHoldingDescription(i),
			strconv.Itoa(2000+i), ftoa(quantity), "10", "11",
			ftoa(quantity*10/7.7745), ftoa(quantity*11/7.7745), ftoa(quantity/7.7745), "0"))
	}

	lots12307 = append(lots12307, equityLot("Common Stock", "China Shenhua Energy Co Ltd-H (1088 HK)", "1002",
		Quote("261,500.00"), "15.0445", "16.02", Quote("506,031.70"), Quote("538,843.80"),
		Quote("30,000.00"), "0"))

	lots40006 := [][]string{
		cashLot("Hong Kong Dollar (HKD)", "1", Quote("3,000,000.00"), "1"),
		cashLot("United States Dollar (USD)", "2", Quote("150,000.00"), "7.7745"),
		cashLot("Chinese Renminbi Yuan (CNY)", "3", Quote("80,000.00"), "1.1821"),
		equityLot("Common Stock", "Tencent Holdings Ltd (700 HK)", "3001",
			Quote("10,000.00"), "500", "650", Quote("5,000,000.00"), Quote("6,500,000.00"),
			Quote("1,500,000.00"), "0"),
		equityLot("Common Stock", "China Shenhua Energy Co Ltd-H (1088 HK)", "3002",
			Quote("20,000.00"), "15", "16.02", Quote("300,000.00"), Quote("320,400.00"),
			Quote("20,400.00"), "0"),
		equityLot("Equity Option", "HSI Call 28000 (HSI 03/30/21 C28000)", "3003",
			"10", "120", "", "1200", "NA", "NA", "NA"),
		equityLot("Equity Option", "HSI Call 28000 (HSI 03/30/21 C28000)", "3004",
			"5", "130", "", "650", "NA", "NA", "NA"),
	}

	return NewReport().
		Part(TaxLotMeta("12307", "USD"), TaxLotHeader, lots12307...).
		Part(TaxLotMeta("40006", "HKD"), TaxLotHeader, lots40006...)
}

func dividendRow(investment, transID, exDate, exQuantity, currency, gross string) []string {
	return Row(DividendHeader, map[string]string{
		"SortByDescription":        "Dividends Receivable",
		"Currency":                 currency,
		"Investment":               investment,
		"TransID":                  transID,
		"EXDate":                   exDate,
		"ExDateQuantity":           exQuantity,
		"LocalCurrency":            currency,
		"LocalGrossDividendRecPay": gross,
		"WHTaxRate":                "10%",
		"LocalWHTaxPayable":        "0",
		"LocalNetDividendRecPay":   gross,
		"BookGrossDividendRecPay":  "0",
		"BookWHTaxPayable":         "0",
		"BookNetDividendRecPay":    "0",
		"UnrealizedFXGainLoss":     "0",
		"PayDate":                  "04/20/2021",
		"LocalPerShareAmount":      "0",
		"LocalReclaimReceivable":   "0",
		"BookReclaimReceivable":    "0",
		"LocalReliefReceivable":    "0",
		"BookReliefReceivable":     "0",
	})
}

// DividendReport has two partial bookings of the 1088 HK dividend for 12307
// (100,000.00 + 52,300.00 HKD) and a USD dividend on a Hong Kong holding
func DividendReport() *Report {
	return NewReport().
		Part(TaxLotMeta("12307", "USD"), DividendHeader,
			dividendRow("China Shenhua Energy Co Ltd-H (1088 HK)", "5001", "03/20/2021", Quote("761,500.00"), "HKD", Quote("100,000.00")),
			dividendRow("China Shenhua Energy Co Ltd-H (1088 HK)", "5002", "03/20/2021", Quote("761,500.00"), "HKD", Quote("52,300.00")),
			dividendRow(singleHoldingDescription(0), "5003", "03/25/2021", "1000.00", "USD", "77.00"),
		).
		Part(TaxLotMeta("40006", "HKD"), DividendHeader,
			dividendRow("Tencent Holdings Ltd (700 HK)", "6001", "03/22/2021", Quote("10,000.00"), "HKD", Quote("16,000.00")),
		)
}

// CashLedgerReport covers every transaction description the FactSet
// transaction export distinguishes
func CashLedgerReport() *Report {
	rows := [][]string{
		Row(CashLedgerHeader, map[string]string{
			"Currency_OpeningBalDesc": "Hong Kong Dollar",
			"CurrBegBalLocal":         Quote("1,000,000.00"),
			"CurrBegBalBook":          Quote("128,626.00"),
		}),
		Row(CashLedgerHeader, map[string]string{
			"CashDate": "03/15/2021", "TradeDate": "03/15/2021", "SettleDate": "03/15/2021",
			"TransID": "7001", "TranDescription": "Dividend",
			"Investment":  "China Shenhua Energy Co Ltd-H (1088 HK)",
			"LocalAmount": Quote("152,300.00"), "BookAmount": Quote("19,589.74"),
			"Currency_ClosingBalDesc": "Hong Kong Dollar",
		}),
		Row(CashLedgerHeader, map[string]string{
			"CashDate": "03/16/2021", "TradeDate": "03/16/2021", "SettleDate": "03/16/2021",
			"TransID": "7002", "TranDescription": "AccountingRelated",
			"LocalAmount": "-120.00", "Currency_ClosingBalDesc": "Hong Kong Dollar",
		}),
		Row(CashLedgerHeader, map[string]string{
			"CashDate": "03/17/2021", "TradeDate": "03/17/2021", "SettleDate": "03/19/2021",
			"TransID": "7003", "TranDescription": "Buy",
			"Investment":  "China Shenhua Energy Co Ltd-H (1088 HK)",
			"LocalAmount": Quote("-3,934,136.75"), "Currency_ClosingBalDesc": "Hong Kong Dollar",
		}),
		Row(CashLedgerHeader, map[string]string{
			"CashDate": "03/18/2021", "TradeDate": "03/18/2021", "SettleDate": "03/18/2021",
			"TransID": "7004", "TranDescription": "ReturnOfCap",
			"Investment":  "Tencent Holdings Ltd (700 HK)",
			"LocalAmount": Quote("5,000.00"), "Currency_ClosingBalDesc": "Hong Kong Dollar",
		}),
		Row(CashLedgerHeader, map[string]string{
			"CashDate": "03/26/2021", "TradeDate": "03/26/2021", "SettleDate": "03/26/2021",
			"TransID": "7005", "TranDescription": "GrossAmountDividend",
			"Investment":  singleHoldingDescription(0),
			"LocalAmount": "77.00", "Currency_ClosingBalDesc": "United States Dollar",
		}),
		Row(CashLedgerHeader, map[string]string{
			"GroupWithinCurrency_ClosingBalDesc": "Hong Kong Dollar",
			"Currency_ClosingBalDesc":            "Hong Kong Dollar",
			"CurrClosingBalLocal":                Quote("-2,776,956.75"),
		}),
	}

	return NewReport().Part(PeriodMeta("12307", "USD"), CashLedgerHeader, rows...)
}

// PurchaseSalesReport has one trade of each kind for 12307
func PurchaseSalesReport() *Report {
	return NewReport().Part(PeriodMeta("12307", "USD"), PurchaseSalesHeader,
		Row(PurchaseSalesHeader, map[string]string{
			"TranType": "Buy", "TranID": "8001", "InvestID": "1088 HK",
			"Investment": "China Shenhua Energy Co Ltd-H", "TradeDate": "03/17/2021",
			"SettleDate": "03/19/2021", "Quantity": Quote("261,500.00"), "Price": "15.0445",
			"LocalCurrency": "HKD", "LocalAmount": Quote("-3,934,136.75"),
			"Commission": "100.00", "Expenses": "20.50", "Broker": "CLSA",
		}),
		Row(PurchaseSalesHeader, map[string]string{
			"TranType": "Sell", "TranID": "8002", "InvestID": "700 HK",
			"Investment": "Tencent Holdings Ltd", "TradeDate": "03/22/2021",
			"SettleDate": "03/24/2021", "Quantity": Quote("-1,000.00"), "Price": "650",
			"LocalCurrency": "HKD", "LocalAmount": Quote("650,000.00"),
			"Commission": "150.00", "Expenses": "30.00", "Broker": "UBS",
		}),
		Row(PurchaseSalesHeader, map[string]string{
			"TranType": "SpotFX", "TranID": "8003", "InvestID": "USD",
			"Investment": "United States Dollar", "TradeDate": "03/29/2021",
			"SettleDate": "03/31/2021", "Quantity": Quote("100,000.00"), "Price": "7.7745",
			"LocalCurrency": "USD", "LocalAmount": Quote("100,000.00"),
			"Commission": "0", "Expenses": "0",
		}),
	)
}

type security struct {
	investID       string
	description    string
	assetType      string
	investmentType string
	isin           string
	sedol          string
	localCurrency  string
}

func securities() []security {
	list := []security{
		{"CNY", "Chinese Renminbi Yuan", "Cash and Equivalents", "Cash and Equivalents", "", "", "CNY"},
		{"HKD", "Hong Kong Dollar", "Cash and Equivalents", "Cash and Equivalents", "", "", "HKD"},
		{"USD", "United States Dollar", "Cash and Equivalents", "Cash and Equivalents", "", "", "USD"},
		{"SGD", "Singapore Dollar", "Cash and Equivalents", "Cash and Equivalents", "", "", "SGD"},
		{"EUR", "Euro", "Cash and Equivalents", "Cash and Equivalents", "", "", "EUR"},
		{"JPY", "Japanese Yen", "Cash and Equivalents", "Cash and Equivalents", "", "", "JPY"},
		{"GBP", "British Pound", "Cash and Equivalents", "Cash and Equivalents", "", "", "GBP"},
		{"1088 HK", "China Shenhua Energy Co Ltd-H", "Equity", "Common Stock", "CNE1000002R0", "B09N7M0", "HKD"},
		{"700 HK", "Tencent Holdings Ltd", "Equity", "Common Stock", "KYG875721634", "BMMV2K8", "HKD"},
		{"HSI 03/30/21 C28000", "HSI Call 28000", "Equity Option", "Index Option", "", "", "HKD"},
	}

	for i := 0; i < NumSingleHoldings; i++ {
		list = append(list, security{
			investID:       SingleHoldingID(i),
			description:    fmt.Sprintf("Holding %03d Ltd", i),
			assetType:      "Equity",
			investmentType: "Common Stock",
			isin:           fmt.Sprintf("HK%010d", FirstSingleHolding+i),
			sedol:          fmt.Sprintf("S%06d", FirstSingleHolding+i),
			localCurrency:  "HKD",
		})
	}
	return list
}

// ReferenceTOML is a reference data file covering every investment in the
// fixtures. The index option is listed with an investment type that has no
// FactSet classification.
func ReferenceTOML() string {
	var sb strings.Builder
	sb.WriteString("[portfolios]\n")
	sb.WriteString("12307 = \"CLO Equity Fund\"\n")
	sb.WriteString("40006 = \"Special Event Fund\"\n\n")

	for _, sec := range securities() {
		sb.WriteString("[[securities]]\n")
		sb.WriteString(fmt.Sprintf("invest_id = %q\n", sec.investID))
		sb.WriteString(fmt.Sprintf("description = %q\n", sec.description))
		sb.WriteString(fmt.Sprintf("asset_type = %q\n", sec.assetType))
		sb.WriteString(fmt.Sprintf("investment_type = %q\n", sec.investmentType))
		sb.WriteString(fmt.Sprintf("isin = %q\n", sec.isin))
		sb.WriteString(fmt.Sprintf("sedol = %q\n", sec.sedol))
		sb.WriteString(fmt.Sprintf("local_currency = %q\n\n", sec.localCurrency))
	}
	return sb.String()
}
