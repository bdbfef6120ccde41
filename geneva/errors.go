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
	"errors"
	"fmt"
)

var (
	ErrMalformedReport   = errors.New("malformed report")
	ErrMissingMetadata   = errors.New("missing report metadata")
	ErrNumberFormat      = errors.New("invalid number")
	ErrInconsistentGroup = errors.New("inconsistent consolidation group")
	ErrUnknownEncoding   = errors.New("unknown character encoding")
)

// MalformedReportError is returned when the structure of a report cannot be
// decoded. Line is the 1-based line number in the source file.
type MalformedReportError struct {
	Line   int
	Reason string
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed report at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedReportError) Unwrap() error { return ErrMalformedReport }

// MissingMetadataError is returned when a report part lacks a preamble value
// that downstream stages depend on.
type MissingMetadataError struct {
	Key  string
	Line int
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("report part starting at line %d has no %q metadata", e.Line, e.Key)
}

func (e *MissingMetadataError) Unwrap() error { return ErrMissingMetadata }

type NumberFormatError struct {
	Field string
	Value string
}

func (e *NumberFormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cannot convert %q to a number", e.Value)
	}
	return fmt.Sprintf("field %s: cannot convert %q to a number", e.Field, e.Value)
}

func (e *NumberFormatError) Unwrap() error { return ErrNumberFormat }

// InconsistentGroupError is returned when records grouped for consolidation
// disagree on a field that must be identical (or must be summable) across the
// group.
type InconsistentGroupError struct {
	Portfolio  string
	Investment string
	Field      string
}

func (e *InconsistentGroupError) Error() string {
	return fmt.Sprintf("portfolio %s, investment %q: group members disagree on %s", e.Portfolio, e.Investment, e.Field)
}

func (e *InconsistentGroupError) Unwrap() error { return ErrInconsistentGroup }
