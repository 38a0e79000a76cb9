/*
Copyright 2022 The l7mp/stunner team.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"os"

	"github.com/l7mp/faq/internal/buildinfo"
	"github.com/l7mp/faq/internal/cli"
)

var (
	version    = buildinfo.DefaultVersion
	commitHash = buildinfo.DefaultCommitHash
	buildDate  = buildinfo.DefaultBuildDate
)

func main() {
	cmd := cli.NewRootCommand(buildinfo.New(version, commitHash, buildDate))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
