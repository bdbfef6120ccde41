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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Number is a numeric report field. A blank or "NA" source cell produces an
// invalid Number which renders as NA.
type Number struct {
	Value float64
	Valid bool
}

// NA is the not-available sentinel
var NA = Number{}

// Num returns a valid Number
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n Number) String() string {
	if !n.Valid {
		return "NA"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Mul multiplies two numbers; NA is contagious
func (n Number) Mul(other Number) Number {
	if !n.Valid || !other.Valid {
		return NA
	}
	return Num(n.Value * other.Value)
}

func (n Number) Add(other Number) Number {
	if !n.Valid || !other.Valid {
		return NA
	}
	return Num(n.Value + other.Value)
}

func (n Number) Sub(other Number) Number {
	if !n.Valid || !other.Valid {
		return NA
	}
	return Num(n.Value - other.Value)
}

// Div is NA when either side is NA or the divisor is zero
func (n Number) Div(other Number) Number {
	if !n.Valid || !other.Valid || other.Value == 0 {
		return NA
	}
	return Num(n.Value / other.Value)
}

func (n Number) Abs() Number {
	if !n.Valid {
		return NA
	}
	return Num(math.Abs(n.Value))
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte(`"NA"`), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Percent is a percentage field. Values written as "x%" parse to x, anything
// else is carried through as its raw text.
type Percent struct {
	Value  float64
	Parsed bool
	Raw    string
}

func (p Percent) String() string {
	if p.Parsed {
		return strconv.FormatFloat(p.Value, 'f', -1, 64)
	}
	return p.Raw
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if p.Parsed {
		return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(p.Raw)
}

// ParseNumber converts a Geneva number cell. Cells may be plain ("2.85") or
// quoted with thousands separators ("\"-14,854,500.47\"").
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return NA, nil
	}

	stripped := s
	if len(stripped) > 2 && stripped[0] == '"' && stripped[len(stripped)-1] == '"' {
		stripped = stripped[1 : len(stripped)-1]
	}
	stripped = strings.ReplaceAll(stripped, ",", "")

	val, err := strconv.ParseFloat(stripped, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return NA, &NumberFormatError{Value: s}
	}
	return Num(val), nil
}

// FormatNumber renders x the way Geneva exports large numbers: values of 1000
// or more in magnitude are quoted and use thousands separators.
func FormatNumber(x float64) string {
	plain := strconv.FormatFloat(x, 'f', -1, 64)
	if math.Abs(x) < 1000 {
		return plain
	}

	sign := ""
	if plain[0] == '-' {
		sign = "-"
		plain = plain[1:]
	}

	intPart, fracPart := plain, ""
	if idx := strings.IndexByte(plain, '.'); idx >= 0 {
		intPart, fracPart = plain[:idx], plain[idx:]
	}

	var sb strings.Builder
	for idx, digit := range intPart {
		if idx > 0 && (len(intPart)-idx)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	return fmt.Sprintf("%q", sign+sb.String()+fracPart)
}

// NormalizeNumber is ParseNumber with the field name attached to any error
func NormalizeNumber(field, value string) (Number, error) {
	n, err := ParseNumber(value)
	if err != nil {
		return NA, &NumberFormatError{Field: field, Value: value}
	}
	return n, nil
}

// NormalizeDate converts mm/dd/yyyy to yyyy-mm-dd and returns a yyyy-mm-dd
// date unchanged. A date that cannot be read becomes "" which downstream
// treats as unknown.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if dt, err := time.Parse("1/2/2006", value); err == nil {
		return dt.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return value
	}

	log.Debug().Str("Value", value).Msg("could not parse date; treating as unknown")
	return ""
}

func NormalizePercent(value string) Percent {
	trimmed := strings.TrimSpace(value)
	if strings.HasSuffix(trimmed, "%") {
		if val, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")), 64); err == nil {
			return Percent{Value: val, Parsed: true, Raw: value}
		}
	}
	return Percent{Raw: value}
}

// FieldRules lists which columns of a report kind are coerced and how.
// Columns not named in any set are carried as text.
type FieldRules struct {
	Numbers  []string
	Dates    []string
	Percents []string
}

// Fields is a data row after FieldRules have been applied
type Fields struct {
	text     RawRecord
	numbers  map[string]Number
	dates    map[string]string
	percents map[string]Percent
}

// Apply coerces the configured columns of rec. Every configured column must
// be present in the row.
func (rules FieldRules) Apply(rec RawRecord) (Fields, error) {
	fields := Fields{
		text:     rec,
		numbers:  make(map[string]Number, len(rules.Numbers)),
		dates:    make(map[string]string, len(rules.Dates)),
		percents: make(map[string]Percent, len(rules.Percents)),
	}

	for _, name := range rules.Numbers {
		value, ok := rec[name]
		if !ok {
			return Fields{}, &MalformedReportError{Reason: fmt.Sprintf("missing column %q", name)}
		}
		n, err := NormalizeNumber(name, value)
		if err != nil {
			return Fields{}, err
		}
		fields.numbers[name] = n
	}

	for _, name := range rules.Dates {
		value, ok := rec[name]
		if !ok {
			return Fields{}, &MalformedReportError{Reason: fmt.Sprintf("missing column %q", name)}
		}
		fields.dates[name] = NormalizeDate(value)
	}

	for _, name := range rules.Percents {
		value, ok := rec[name]
		if !ok {
			return Fields{}, &MalformedReportError{Reason: fmt.Sprintf("missing column %q", name)}
		}
		fields.percents[name] = NormalizePercent(value)
	}

	return fields, nil
}

func (f Fields) Text(name string) string {
	return strings.TrimSpace(f.text[name])
}

func (f Fields) Number(name string) Number {
	return f.numbers[name]
}

func (f Fields) Date(name string) string {
	return f.dates[name]
}

func (f Fields) Percent(name string) Percent {
	return f.percents[name]
}
