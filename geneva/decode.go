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
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format describes how a Geneva text export is encoded on disk
type Format struct {
	Encoding  string
	Delimiter rune
}

// DefaultFormat is what Geneva produces when a report is saved as "txt"
var DefaultFormat = Format{
	Encoding:  "utf-16",
	Delimiter: '\t',
}

// Line is one delimited line of a report. Number is 1-based.
type Line struct {
	Number int
	Cells  []string
}

// Block holds the lines of one logical sub-report of a multipart export
type Block struct {
	Preamble []Line
	Header   Line
	Rows     []Line
}

func (b *Block) hasHeader() bool {
	return b.Header.Cells != nil
}

// first returns the number of the first line belonging to the block
func (b *Block) first() int {
	if len(b.Preamble) > 0 {
		return b.Preamble[0].Number
	}
	return b.Header.Number
}

// hasLabel reports whether the preamble already carries the canonical label
func (b *Block) hasLabel(label string) bool {
	for _, line := range b.Preamble {
		if seen, _ := parseMetadata(line); seen == label {
			return true
		}
	}
	return false
}

// metadataLabel matches the "Label:" convention of the report preamble
var metadataLabel = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ]{0,39}:`)

// lookupEncoding resolves an encoding name. Plain "utf-16" follows the BOM
// when there is one and falls back to little endian, which is what Windows
// exports use.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// ReadLines decodes r and splits it into delimited lines. Cells are split
// verbatim on the delimiter; quoting is left for the field normalizer.
func ReadLines(r io.Reader, format Format) ([]Line, error) {
	enc, err := lookupEncoding(format.Encoding)
	if err != nil {
		return nil, err
	}

	decoder := unicode.BOMOverride(enc.NewDecoder())
	content, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode report as %s", format.Encoding)
	}

	text := strings.TrimPrefix(string(content), "\ufeff")
	rawLines := strings.Split(text, "\n")
	if rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}

	delimiter := string(format.Delimiter)
	lines := make([]Line, 0, len(rawLines))
	for idx, raw := range rawLines {
		raw = strings.TrimSuffix(raw, "\r")
		lines = append(lines, Line{
			Number: idx + 1,
			Cells:  strings.Split(raw, delimiter),
		})
	}

	log.Debug().Int("NumLines", len(lines)).Str("Encoding", format.Encoding).Msg("decoded report lines")
	return lines, nil
}

// DecodeLines is ReadLines over an in-memory report
func DecodeLines(content []byte, format Format) ([]Line, error) {
	return ReadLines(bytes.NewReader(content), format)
}

func isBlank(line Line) bool {
	for _, cell := range line.Cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isMetadata(line Line) bool {
	if len(line.Cells) == 0 {
		return false
	}
	return metadataLabel.MatchString(strings.TrimSpace(line.Cells[0]))
}

// GroupParts splits the lines of a multipart export into one block per part.
//
// A blank line is a part boundary. A part is made of "Label: value" preamble
// lines, a header line and the data lines that follow it. A preamble line seen
// after the header starts the next part even without a blank separator. A
// boundary met before the header is ignored so the preamble may be separated
// from the header by blank lines. A label repeated before any header means a
// part ended without one.
func GroupParts(lines []Line) ([]Block, error) {
	blocks := make([]Block, 0, 8)
	current := Block{}

	closeBlock := func() {
		blocks = append(blocks, current)
		current = Block{}
	}

	for _, line := range lines {
		switch {
		case isBlank(line):
			if current.hasHeader() {
				closeBlock()
			}
		case isMetadata(line):
			if current.hasHeader() {
				closeBlock()
			} else if label, _ := parseMetadata(line); current.hasLabel(label) {
				return nil, &MalformedReportError{
					Line:   current.first(),
					Reason: "report part has no header row",
				}
			}
			current.Preamble = append(current.Preamble, line)
		case !current.hasHeader():
			current.Header = line
		default:
			current.Rows = append(current.Rows, line)
		}
	}

	if current.hasHeader() {
		closeBlock()
	} else if len(current.Preamble) > 0 {
		return nil, &MalformedReportError{
			Line:   current.first(),
			Reason: "report part has no header row",
		}
	}

	return blocks, nil
}

// ReadParts decodes a multipart export and builds every part it contains
func ReadParts(r io.Reader, format Format) ([]ReportPart, error) {
	lines, err := ReadLines(r, format)
	if err != nil {
		return nil, err
	}

	blocks, err := GroupParts(lines)
	if err != nil {
		return nil, err
	}

	parts := make([]ReportPart, 0, len(blocks))
	for _, block := range blocks {
		part, err := BuildPart(block)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	log.Debug().Int("NumParts", len(parts)).Msg("grouped report parts")
	return parts, nil
}
