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
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// lz4 frames carry a content checksum so a truncated export fails to read
// back instead of yielding a short file
var frameOptions = []lz4.Option{
	lz4.ChecksumOption(true),
	lz4.CompressionLevelOption(lz4.Fast),
	lz4.BlockSizeOption(lz4.Block1Mb),
}

// NewCompressedWriter wraps w in an lz4 frame writer. Close flushes the
// final block but leaves w open.
func NewCompressedWriter(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(frameOptions...); err != nil {
		return nil, errors.Wrap(err, "configure lz4 writer")
	}
	return zw, nil
}

func NewDecompressedReader(r io.Reader) io.Reader {
	return lz4.NewReader(r)
}
