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
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// FileDigest identifies an input file by its content hash
type FileDigest struct {
	FileName string `json:"FileName"`
	Digest   string `json:"Digest"`
}

// Digest returns the hex encoded blake3 hash of everything read from r
func Digest(r io.Reader) (string, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", errors.Wrap(err, "hashing input")
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func DigestBytes(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func DigestFile(fn string) (FileDigest, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return FileDigest{}, errors.Wrapf(err, "open %s", fn)
	}
	defer fh.Close()

	digest, err := Digest(fh)
	if err != nil {
		return FileDigest{}, err
	}
	return FileDigest{FileName: fn, Digest: digest}, nil
}
