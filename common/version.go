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
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

const ProgramName = "pvgeneva"

// Set through -ldflags by the mage Build target
var (
	commitHash string
	buildDate  string
)

// Version is a SemVer 2.0.0 version. Suffix is blank for releases.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

func (v Version) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return sb.String()
	}

	sb.WriteString("-" + v.Suffix)
	if commitHash != "" {
		sb.WriteString("+" + strings.ToLower(commitHash))
	}
	return sb.String()
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Program      string   `json:"program"`
	Version      string   `json:"version"`
	Platform     string   `json:"platform"`
	GoVersion    string   `json:"goVersion"`
	BuildDate    string   `json:"buildDate"`
	Commit       string   `json:"commit"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// CurrentBuild collects the version details of this binary, including the
// module list when deps is set
func CurrentBuild(deps bool) BuildInfo {
	info := BuildInfo{
		Program:   ProgramName,
		Version:   CurrentVersion.String(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion: runtime.Version(),
		BuildDate: orUnknown(buildDate),
		Commit:    orUnknown(commitHash),
	}
	if deps {
		info.Dependencies = GetDependencyList()
	}
	return info
}

// GetDependencyList lists the modules linked into the binary as
// path="version", sorted by path
func GetDependencyList() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}
	sort.Strings(deps)
	return deps
}

func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s v%s %s\n\n", b.Program, b.Version, b.Platform)
	fmt.Fprintf(&sb, "Build Date: %s\nCommit: %s\nBuilt with: %s", b.BuildDate, b.Commit, b.GoVersion)
	if len(b.Dependencies) > 0 {
		sb.WriteString("\n\nDependencies:\n\n")
		sb.WriteString(strings.Join(b.Dependencies, "\n"))
	}
	return sb.String()
}

// BuildVersionString is the text printed by "pvgeneva version"
func BuildVersionString(deps bool) string {
	return CurrentBuild(deps).String()
}
