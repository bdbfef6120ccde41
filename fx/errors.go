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

package fx

import (
	"errors"
	"fmt"
)

var (
	ErrRateNotFound = errors.New("exchange rate not found")
)

// FxRateNotFoundError is returned when no tier of the lookup can convert
// Currency into Target
type FxRateNotFoundError struct {
	Date      string
	Portfolio string
	Currency  string
	Target    string
}

func (e *FxRateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate from %s to %s on %s (portfolio %s)", e.Currency, e.Target, e.Date, e.Portfolio)
}

func (e *FxRateNotFoundError) Unwrap() error { return ErrRateNotFound }
