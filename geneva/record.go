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
	"strings"
	"time"
)

// RawRecord maps a column name to the undecoded cell text of one data row
type RawRecord map[string]string

// ReportPart is one sub-report of a multipart export. Lines holds the source
// line number of each record and Line the first line of the part.
type ReportPart struct {
	Metadata map[string]string
	Records  []RawRecord
	Lines    []int
	Line     int
}

const (
	MetaPortfolio       = "Portfolio"
	MetaPeriodStartDate = "PeriodStartDate"
	MetaPeriodEndDate   = "PeriodEndDate"
	MetaKnowledgeDate   = "KnowledgeDate"
	MetaBookCurrency    = "BookCurrency"
)

var metadataLabels = map[string]string{
	"portfolio":       MetaPortfolio,
	"periodstartdate": MetaPeriodStartDate,
	"periodenddate":   MetaPeriodEndDate,
	"knowledgedate":   MetaKnowledgeDate,
	"bookcurrency":    MetaBookCurrency,
}

var metadataDateLayouts = []struct {
	in  string
	out string
}{
	{"1/2/2006", "2006-01-02"},
	{"1/2/2006 15:04", "2006-01-02 15:04"},
	{"1/2/2006 15:04:05", "2006-01-02 15:04"},
	{"1/2/2006 3:04 PM", "2006-01-02 15:04"},
	{"1/2/2006 3:04:05 PM", "2006-01-02 15:04"},
}

func canonicalLabel(label string) string {
	compact := strings.ReplaceAll(strings.TrimSpace(label), " ", "")
	if key, ok := metadataLabels[strings.ToLower(compact)]; ok {
		return key
	}
	return compact
}

// metadataValue renders US style preamble dates as ISO dates and leaves
// everything else alone
func metadataValue(value string) string {
	for _, layout := range metadataDateLayouts {
		if dt, err := time.Parse(layout.in, value); err == nil {
			return dt.Format(layout.out)
		}
	}
	return value
}

func parseMetadata(line Line) (string, string) {
	first := strings.TrimSpace(line.Cells[0])
	idx := strings.Index(first, ":")
	label := first[:idx]
	value := strings.TrimSpace(first[idx+1:])
	if value == "" && len(line.Cells) > 1 {
		value = strings.TrimSpace(line.Cells[1])
	}
	return canonicalLabel(label), metadataValue(value)
}

func headerNames(header Line) ([]string, error) {
	cells := header.Cells
	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}

	names := make([]string, len(cells))
	seen := make(map[string]bool, len(cells))
	for idx, cell := range cells {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, &MalformedReportError{
				Line:   header.Number,
				Reason: fmt.Sprintf("header column %d is empty", idx+1),
			}
		}
		if seen[name] {
			return nil, &MalformedReportError{
				Line:   header.Number,
				Reason: fmt.Sprintf("header column %q appears more than once", name),
			}
		}
		seen[name] = true
		names[idx] = name
	}
	return names, nil
}

// BuildPart zips the data rows of a block with its header and extracts the
// preamble metadata. Rows shorter than the header are padded with empty
// cells; rows longer than the header must only carry empty surplus cells.
func BuildPart(block Block) (ReportPart, error) {
	part := ReportPart{
		Metadata: make(map[string]string, len(block.Preamble)),
		Records:  make([]RawRecord, 0, len(block.Rows)),
		Lines:    make([]int, 0, len(block.Rows)),
		Line:     block.first(),
	}

	for _, line := range block.Preamble {
		key, value := parseMetadata(line)
		part.Metadata[key] = value
	}

	names, err := headerNames(block.Header)
	if err != nil {
		return ReportPart{}, err
	}

	for _, row := range block.Rows {
		for idx := len(names); idx < len(row.Cells); idx++ {
			if strings.TrimSpace(row.Cells[idx]) != "" {
				return ReportPart{}, &MalformedReportError{
					Line:   row.Number,
					Reason: fmt.Sprintf("row has %d cells but header has %d columns", len(row.Cells), len(names)),
				}
			}
		}

		record := make(RawRecord, len(names))
		for idx, name := range names {
			if idx < len(row.Cells) {
				record[name] = row.Cells[idx]
			} else {
				record[name] = ""
			}
		}
		part.Records = append(part.Records, record)
		part.Lines = append(part.Lines, row.Number)
	}

	return part, nil
}

// Require checks that every key is present and non-empty in the metadata
func (part ReportPart) Require(keys ...string) error {
	for _, key := range keys {
		if part.Metadata[key] == "" {
			return &MissingMetadataError{Key: key, Line: part.Line}
		}
	}
	return nil
}

// Meta returns a metadata value, or "" when the preamble did not carry it
func (part ReportPart) Meta(key string) string {
	return part.Metadata[key]
}
