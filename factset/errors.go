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
	"errors"
	"fmt"
)

var (
	ErrUnsupportedAssetType   = errors.New("unsupported asset type")
	ErrUnsupportedSymbol      = errors.New("unsupported security symbol")
	ErrReferenceNotFound      = errors.New("reference data not found")
	ErrUnsupportedTransaction = errors.New("unsupported transaction")
)

// UnsupportedAssetTypeError is returned for a Geneva investment type that has
// no FactSet classification
type UnsupportedAssetTypeError struct {
	InvestmentType string
}

func (e *UnsupportedAssetTypeError) Error() string {
	return fmt.Sprintf("investment type %q has no FactSet classification", e.InvestmentType)
}

func (e *UnsupportedAssetTypeError) Unwrap() error { return ErrUnsupportedAssetType }

type UnsupportedSymbolError struct {
	InvestID string
	Reason   string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("cannot build a symbol for %q: %s", e.InvestID, e.Reason)
}

func (e *UnsupportedSymbolError) Unwrap() error { return ErrUnsupportedSymbol }

// ReferenceNotFoundError is returned when the security master, portfolio
// directory or currency map has no entry for Key
type ReferenceNotFoundError struct {
	Kind string
	Key  string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("no %s reference for %q", e.Kind, e.Key)
}

func (e *ReferenceNotFoundError) Unwrap() error { return ErrReferenceNotFound }

type UnsupportedTransactionError struct {
	Portfolio   string
	TransID     string
	Description string
}

func (e *UnsupportedTransactionError) Error() string {
	return fmt.Sprintf("portfolio %s transaction %s: %q is not supported", e.Portfolio, e.TransID, e.Description)
}

func (e *UnsupportedTransactionError) Unwrap() error { return ErrUnsupportedTransaction }
