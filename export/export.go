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

// Package export writes report tables as CSV or JSON lines files, optionally
// lz4 compressed.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-geneva/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// File name prefixes of each exported table
const (
	PrefixTaxLot              = "taxlot_positions"
	PrefixCashLedger          = "cash_ledger"
	PrefixDividendReceivable  = "dividend_receivable"
	PrefixPurchaseSales       = "purchase_sales"
	PrefixFactSetPositions    = "factset_positions"
	PrefixFactSetTransactions = "factset_transactions"
)

const compressedExt = ".lz4"

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatJSON, "jsonl":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Record is one row of an exported table
type Record interface {
	Row() []string
}

type Options struct {
	Directory string
	Format    Format
	Compress  bool
}

// Header describes where an export came from. It is the first line of a
// JSON lines export.
type Header struct {
	RunID     string              `json:"RunID"`
	Report    string              `json:"Report"`
	Date      string              `json:"Date"`
	Portfolio string              `json:"Portfolio,omitempty"`
	Created   time.Time           `json:"Created"`
	Sources   []common.FileDigest `json:"Sources"`
}

type headerLine struct {
	Header Header `json:"Header"`
}

// TimestampSuffix is the file name suffix used when a whole report file is
// exported rather than one portfolio
func TimestampSuffix(t time.Time) string {
	return t.Format("20060102150405")
}

// Filename returns <prefix>_<yyyymmdd>_<suffix> with the extension of the
// configured format
func (opts Options) Filename(prefix, date, suffix string) string {
	ext := ".csv"
	if opts.Format == FormatJSON {
		ext = ".jsonl"
	}
	if opts.Compress {
		ext += compressedExt
	}

	name := prefix + "_" + strings.ReplaceAll(date, "-", "") + "_" + suffix + ext
	return filepath.Join(opts.Directory, name)
}

// Encode writes records to w. CSV output starts with a row of field names;
// JSON output starts with the header and then has one object per record.
func Encode[T Record](w io.Writer, format Format, header Header, fields []string, records []T) error {
	for idx, rec := range records {
		if cols := len(rec.Row()); cols != len(fields) {
			return &FieldCountError{Index: idx, Expected: len(fields), Actual: cols}
		}
	}

	switch format {
	case FormatCSV, "":
		return encodeCSV(w, fields, records)
	case FormatJSON:
		return encodeJSON(w, header, records)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func encodeCSV[T Record](w io.Writer, fields []string, records []T) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fields); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, rec := range records {
		if err := writer.Write(rec.Row()); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

func encodeJSON[T Record](w io.Writer, header Header, records []T) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(headerLine{Header: header}); err != nil {
		return errors.Wrap(err, "write json header")
	}

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return errors.Wrap(err, "write json record")
		}
	}
	return nil
}

// Write saves records to the file named by opts.Filename and returns its
// path
func Write[T Record](opts Options, prefix, suffix string, header Header, fields []string, records []T) (string, error) {
	fn := opts.Filename(prefix, header.Date, suffix)
	subLog := log.With().Str("FileName", fn).Str("Report", header.Report).Logger()

	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		err = errors.Wrapf(err, "create %s", filepath.Dir(fn))
		subLog.Error().Stack().Err(err).Msg("could not create output directory")
		return "", err
	}

	fh, err := os.Create(fn)
	if err != nil {
		err = errors.Wrapf(err, "create %s", fn)
		subLog.Error().Stack().Err(err).Msg("could not create output file")
		return "", err
	}

	// a partial export must not be mistaken for a finished one
	complete := false
	defer func() {
		fh.Close()
		if !complete {
			if err := os.Remove(fn); err != nil {
				subLog.Warn().Err(err).Msg("could not remove incomplete export")
			}
		}
	}()

	var out io.Writer = fh
	var zw io.WriteCloser
	if opts.Compress {
		if zw, err = common.NewCompressedWriter(fh); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not write export")
			return "", err
		}
		out = zw
	}

	if err := Encode(out, opts.Format, header, fields, records); err != nil {
		subLog.Error().Err(err).Msg("could not write export")
		return "", err
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			err = errors.Wrap(err, "flush lz4 stream")
			subLog.Error().Stack().Err(err).Msg("could not write export")
			return "", err
		}
	}

	if err := fh.Close(); err != nil {
		err = errors.Wrapf(err, "close %s", fn)
		subLog.Error().Stack().Err(err).Msg("could not write export")
		return "", err
	}
	complete = true

	digest, err := common.DigestFile(fn)
	if err != nil {
		subLog.Warn().Err(err).Msg("could not hash export")
	}

	subLog.Info().Int("NumRecords", len(records)).Bool("Compressed", opts.Compress).Str("Digest", digest.Digest).Msg("wrote export")
	return fn, nil
}
