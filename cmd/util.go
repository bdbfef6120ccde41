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

package cmd

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/penny-vault/pv-geneva/data"
	"github.com/penny-vault/pv-geneva/export"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "tab", "\\t", "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	}

	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// dataConfig builds the data configuration from viper
func dataConfig() (data.Config, error) {
	cfg := data.DefaultConfig()
	cfg.Directory = viper.GetString("data.directory")
	if size := viper.GetInt("data.cache_size"); size > 0 {
		cfg.CacheSize = size
	}

	if encoding := viper.GetString("data.encoding"); encoding != "" {
		cfg.Format.Encoding = encoding
	}

	delimiter, err := parseDelimiter(viper.GetString("data.delimiter"))
	if err != nil {
		return data.Config{}, err
	}
	cfg.Format.Delimiter = delimiter

	return cfg, nil
}

// newManager creates the data manager. Reference data is loaded when a
// reference file is configured and is mandatory when needReference is set.
func newManager(needReference bool) (*data.Manager, error) {
	cfg, err := dataConfig()
	if err != nil {
		return nil, err
	}

	var ref *data.Reference
	if fn := viper.GetString("reference.file"); fn != "" {
		if ref, err = data.LoadReference(fn); err != nil {
			return nil, err
		}
	} else if needReference {
		log.Error().Msg("no reference file configured; set reference.file or GENEVA_REFERENCE_FILE")
		return nil, data.ErrNoReferenceData
	}

	log.Debug().Str("Directory", cfg.Directory).Str("Encoding", cfg.Format.Encoding).Int("CacheSize", cfg.CacheSize).Msg("configured data manager")
	return data.NewManager(cfg, ref)
}

func exportOptions() (export.Options, error) {
	format, err := export.ParseFormat(viper.GetString("output.format"))
	if err != nil {
		return export.Options{}, err
	}

	return export.Options{
		Directory: viper.GetString("output.directory"),
		Format:    format,
		Compress:  viper.GetBool("output.compress"),
	}, nil
}

// writeTable exports records with a header describing the files the manager
// read since its sources were last reset
func writeTable[T export.Record](manager *data.Manager, opts export.Options, report, prefix, date, portfolio string, fields []string, records []T) (string, error) {
	suffix := portfolio
	if suffix == "" {
		suffix = export.TimestampSuffix(time.Now())
	}

	header := export.Header{
		RunID:     runID,
		Report:    report,
		Date:      date,
		Portfolio: portfolio,
		Created:   time.Now().UTC(),
		Sources:   manager.Sources(),
	}

	return export.Write(opts, prefix, suffix, header, fields, records)
}
