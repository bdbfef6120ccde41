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
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileResolution    = errors.New("could not resolve report file")
	ErrNoDataDirectory   = errors.New("data directory not configured")
	ErrUnknownKind       = errors.New("unknown report kind")
	ErrInvalidDate       = errors.New("invalid date; expected yyyy-mm-dd")
	ErrNoReferenceData   = errors.New("reference data not loaded")
	ErrDuplicateSecurity = errors.New("security listed twice in reference data")
)

// FileResolutionError is returned when a report lookup matches no file or
// more than one file
type FileResolutionError struct {
	Kind       Kind
	Date       string
	Candidates []string
}

func (e *FileResolutionError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no %s report for %s", e.Kind, e.Date)
	}
	return fmt.Sprintf("%d %s reports for %s: %s", len(e.Candidates), e.Kind, e.Date, strings.Join(e.Candidates, ", "))
}

func (e *FileResolutionError) Unwrap() error { return ErrFileResolution }
