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

package export

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrFieldCount    = errors.New("record does not match the field list")
)

// FieldCountError is returned when a record renders a different number of
// columns than the table has fields
type FieldCountError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("record %d has %d columns; expected %d", e.Index, e.Actual, e.Expected)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCount }
