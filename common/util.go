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
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
)

// ArrToLower lowercases and trims every string in arr and drops empty entries
func ArrToLower(arr []string) []string {
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ArrTrim trims every string in arr and drops empty entries
func ArrTrim(arr []string) []string {
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// logLevel maps the configured level name to a zerolog level. Anything
// unrecognized logs at warning.
func logLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zerolog.WarnLevel
	}

	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.WarnLevel
	}
	return level
}

// logWriter opens the configured log destination: stdout, stderr or a file
// path that stays open for the life of the process
func logWriter(output string, pretty bool) io.Writer {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		fh, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			panic(err)
		}
		if pretty {
			return zerolog.ConsoleWriter{Out: fh, NoColor: true}
		}
		return fh
	}

	if pretty {
		return zerolog.ConsoleWriter{Out: out}
	}
	return out
}

// SetupLogging configures the global logger from the log.* viper keys
func SetupLogging() {
	level := logLevel(viper.GetString("log.level"))
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(logWriter(viper.GetString("log.output"), viper.GetBool("log.pretty")))
	if viper.GetBool("log.report_caller") {
		log.Logger = log.With().Caller().Logger()
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Debug().Str("Level", level.String()).Msg("configured logging")
}
