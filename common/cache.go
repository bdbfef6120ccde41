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

package common

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

// ReportCache is a small read-through cache of parsed reports. Reports are
// held decoded so repeated lookups for the same date skip the UTF-16 decode.
type ReportCache struct {
	cache *lru.Cache
}

func NewReportCache(size int) (*ReportCache, error) {
	if size <= 0 {
		size = 1
	}

	cache, err := lru.New(size)
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return nil, err
	}

	return &ReportCache{cache: cache}, nil
}

func (c *ReportCache) Set(key string, val interface{}) {
	if evicted := c.cache.Add(key, val); evicted {
		log.Debug().Str("Key", key).Msg("report cache full; evicted oldest entry")
	}
}

func (c *ReportCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *ReportCache) Len() int {
	return c.cache.Len()
}

func (c *ReportCache) Purge() {
	c.cache.Purge()
}
