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

// Package reporthelper builds Geneva style multipart text exports for tests
package reporthelper

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
)

// Meta is one "Label: value" preamble line
type Meta struct {
	Label string
	Value string
}

type part struct {
	meta   []Meta
	header []string
	rows   [][]string
}

// Report is an in-memory multipart export
type Report struct {
	parts []part
}

func NewReport() *Report {
	return &Report{}
}

// Part appends a sub-report. Rows shorter than the header are written as is.
func (r *Report) Part(meta []Meta, header []string, rows ...[]string) *Report {
	r.parts = append(r.parts, part{
		meta:   meta,
		header: header,
		rows:   rows,
	})
	return r
}

// Text renders the report with tab delimiters, CRLF line endings and a blank
// line between parts
func (r *Report) Text() string {
	var sb strings.Builder
	for idx, p := range r.parts {
		if idx > 0 {
			sb.WriteString("\r\n")
		}
		for _, m := range p.meta {
			sb.WriteString(m.Label + ": " + m.Value + "\r\n")
		}
		sb.WriteString(strings.Join(p.header, "\t") + "\r\n")
		for _, row := range p.rows {
			sb.WriteString(strings.Join(row, "\t") + "\r\n")
		}
	}
	return sb.String()
}

// UTF16 encodes the report little endian with a byte order mark, the way
// Geneva saves text reports
func (r *Report) UTF16() []byte {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	content, err := encoder.Bytes([]byte(r.Text()))
	if err != nil {
		log.Panic().Err(err).Msg("could not encode report as utf-16")
	}
	return content
}

// WriteFile saves the UTF-16 rendering of the report to dir/name and
// returns the full path
func (r *Report) WriteFile(dir, name string) string {
	fn := filepath.Join(dir, name)
	if err := os.WriteFile(fn, r.UTF16(), 0600); err != nil {
		log.Panic().Err(err).Str("FileName", fn).Msg("could not write report")
	}
	return fn
}
