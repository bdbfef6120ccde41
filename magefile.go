//go:build mage

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

package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pvgeneva"
	modulePath = "github.com/penny-vault/pv-geneva"
	coverFile  = "coverage.out"
)

// gocmd is the go executable, overridable with GOEXE
func gocmd() string {
	if exe := os.Getenv("GOEXE"); exe != "" {
		return exe
	}
	return "go"
}

// versionFlags stamps the commit and build date into common
func versionFlags() string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return fmt.Sprintf("-X %[1]s/common.commitHash=%[2]s -X %[1]s/common.buildDate=%[3]s",
		modulePath, hash, time.Now().UTC().Format(time.RFC3339))
}

func goArgs(verb string, extra ...string) []string {
	args := []string{verb}
	if runtime.GOOS == "windows" {
		args = append(args, "-buildmode", "exe")
	}
	return append(args, extra...)
}

// Build compiles pvgeneva into the working directory
func Build() error {
	fmt.Println("building", binaryName)
	return sh.RunV(gocmd(), goArgs("build", "-o", binaryName, "-ldflags", versionFlags(), ".")...)
}

// Install puts pvgeneva in GOPATH/bin
func Install() error {
	return sh.RunV(gocmd(), goArgs("install", "-ldflags", versionFlags(), ".")...)
}

// Clean removes build and coverage output
func Clean() error {
	for _, fn := range []string{binaryName, coverFile} {
		if err := sh.Rm(fn); err != nil {
			return err
		}
	}
	return nil
}

// Check formats, vets and runs the race tests
func Check() {
	mg.SerialDeps(Fmt, Vet, TestRace)
}

// Test runs the unit tests
func Test() error {
	return sh.RunV(gocmd(), goArgs("test", "./...")...)
}

// TestRace runs the unit tests with the race detector
func TestRace() error {
	return sh.RunV(gocmd(), goArgs("test", "-race", "./...")...)
}

// Fmt fails when gofmt would rewrite any file
func Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet over the module
func Vet() error {
	return sh.RunV(gocmd(), "vet", "./...")
}

// Cover writes a coverage profile for every package and opens it as html
func Cover() error {
	if err := sh.RunV(gocmd(), goArgs("test", "-covermode=count", "-coverprofile="+coverFile, "./...")...); err != nil {
		return err
	}
	return sh.Run(gocmd(), "tool", "cover", "-html="+coverFile)
}
