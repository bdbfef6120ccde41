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
	"github.com/penny-vault/pv-geneva/geneva"
)

const DefaultCacheSize = 3

// Config locates the Geneva report drop and describes how its files are
// encoded. It is built once by the caller and handed to NewManager.
type Config struct {
	Directory string
	Format    geneva.Format
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		Directory: ".",
		Format:    geneva.DefaultFormat,
		CacheSize: DefaultCacheSize,
	}
}
