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

	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/pv-geneva/factset"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Reference is the security master and portfolio directory used when
// mapping to FactSet. It is read from a TOML file:
//
//	[portfolios]
//	12307 = "CLO Equity Fund"
//
//	[[securities]]
//	invest_id = "1088 HK"
//	investment_type = "Common Stock"
//	isin = "CNE1000002R0"
type Reference struct {
	Portfolios map[string]string  `toml:"portfolios"`
	Securities []factset.Security `toml:"securities"`

	byInvestID map[string]factset.Security
}

func ParseReference(content []byte) (*Reference, error) {
	ref := &Reference{}
	if err := toml.Unmarshal(content, ref); err != nil {
		return nil, errors.Wrap(err, "parse reference data")
	}

	ref.byInvestID = make(map[string]factset.Security, len(ref.Securities))
	for _, sec := range ref.Securities {
		if _, ok := ref.byInvestID[sec.InvestID]; ok {
			return nil, errors.Wrapf(ErrDuplicateSecurity, "%q", sec.InvestID)
		}
		ref.byInvestID[sec.InvestID] = sec
	}

	if ref.Portfolios == nil {
		ref.Portfolios = make(map[string]string)
	}

	return ref, nil
}

func LoadReference(fn string) (*Reference, error) {
	content, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference data %s", fn)
	}

	ref, err := ParseReference(content)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not load reference data")
		return nil, err
	}

	log.Info().Str("FileName", fn).Int("NumSecurities", len(ref.Securities)).Int("NumPortfolios", len(ref.Portfolios)).Msg("loaded reference data")
	return ref, nil
}

func (r *Reference) Security(investID string) (factset.Security, bool) {
	sec, ok := r.byInvestID[investID]
	return sec, ok
}

func (r *Reference) PortfolioName(code string) (string, bool) {
	name, ok := r.Portfolios[code]
	return name, ok
}
