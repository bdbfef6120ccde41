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

package data

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Kind identifies one of the Geneva reports
type Kind string

const (
	KindTaxLot             Kind = "taxlot"
	KindCashLedger         Kind = "cashledger"
	KindDividendReceivable Kind = "dividend"
	KindPurchaseSales      Kind = "purchasesales"
)

var kindPrefixes = map[Kind]string{
	KindTaxLot:             "all funds tax lot",
	KindCashLedger:         "all funds cash ledger",
	KindDividendReceivable: "all funds dividend receivable",
	KindPurchaseSales:      "all funds purchase sales",
}

var fileDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Kinds lists every report kind in processing order
func Kinds() []Kind {
	return []Kind{KindTaxLot, KindCashLedger, KindDividendReceivable, KindPurchaseSales}
}

func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindPrefixes[kind]; !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
	return kind, nil
}

// Prefix is the lower case start of every file name of this kind
func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

func (k Kind) Matches(name string) bool {
	prefix := k.Prefix()
	return prefix != "" && strings.HasPrefix(strings.ToLower(name), prefix)
}

// ValidateDate checks that date is a yyyy-mm-dd calendar date
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.Wrapf(ErrInvalidDate, "%q", date)
	}
	return nil
}

// DateFromFilename returns the last yyyy-mm-dd embedded in name. A cash
// ledger covering 2021-03-01 through 2021-03-31 is effective 2021-03-31.
func DateFromFilename(name string) (string, bool) {
	matches := fileDatePattern.FindAllString(filepath.Base(name), -1)
	for idx := len(matches) - 1; idx >= 0; idx-- {
		if ValidateDate(matches[idx]) == nil {
			return matches[idx], true
		}
	}
	return "", false
}

// ListFiles returns the names of the regular files in dir, sorted
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// FindFile resolves the single report of kind effective on date
func FindFile(dir string, kind Kind, date string) (string, error) {
	if kind.Prefix() == "" {
		return "", errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if err := ValidateDate(date); err != nil {
		return "", err
	}

	names, err := ListFiles(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, name := range names {
		if !kind.Matches(name) {
			continue
		}
		if fileDate, ok := DateFromFilename(name); ok && fileDate == date {
			candidates = append(candidates, name)
		}
	}

	if len(candidates) != 1 {
		log.Warn().Str("Kind", string(kind)).Str("Date", date).Strs("Candidates", candidates).Msg("could not resolve report file")
		return "", &FileResolutionError{Kind: kind, Date: date, Candidates: candidates}
	}

	return filepath.Join(dir, candidates[0]), nil
}

// AvailableDates lists the effective dates of every report of kind in dir
// that fall within [from, to]. Either bound may be blank.
func AvailableDates(dir string, kind Kind, from, to string) ([]string, error) {
	names, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dates []string
	for _, name := range names {
		if !kind.Matches(name) {
			continue
		}
		date, ok := DateFromFilename(name)
		if !ok || seen[date] {
			continue
		}
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		seen[date] = true
		dates = append(dates, date)
	}

	sort.Strings(dates)
	return dates, nil
}
