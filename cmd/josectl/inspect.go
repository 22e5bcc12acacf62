// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deep-rent/joseid/jose/jwt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [token]",
	Short: "Print a JWT's claims without checking its signature or time claims",
	Long: `inspect decodes a JWT's claims without verifying its signature and
without checking "exp"/"nbf". It is a diagnostic command only: never treat
its output as an authorization decision. The token is read from the
positional argument, or from stdin if omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	token, err := readToken(cmd, args)
	if err != nil {
		return err
	}
	claims, err := jwt.Inspect(token)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), claims.ReadableJSON(2))
	return nil
}
