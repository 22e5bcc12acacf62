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
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deep-rent/joseid/jose/jwk"
	"github.com/deep-rent/joseid/jose/jwt"
)

var (
	verifyKeyFile string
	verifySkew    time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a JWT's signature and time claims",
	Long: `verify checks a compact JWT's signature against a JWK or JWK Set
and validates its "exp"/"nbf" claims against the current time. The token
is read from the positional argument, or from stdin if omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyKeyFile, "key", "", "path to a verification JWK or JWK Set (falls back to --config key_file)")
	f.DurationVar(&verifySkew, "skew", 0, "clock-skew tolerance; falls back to --config skew_seconds")
}

func runVerify(cmd *cobra.Command, args []string) error {
	icfg, err := loadIssuerConfig(cfgFile)
	if err != nil {
		return err
	}

	keyFile := verifyKeyFile
	if keyFile == "" {
		keyFile = icfg.KeyFile
	}
	if keyFile == "" {
		return fmt.Errorf("josectl: no verification key given; pass --key or set key_file in --config")
	}
	candidates, err := loadCandidates(keyFile)
	if err != nil {
		return err
	}
	defer func() {
		for _, k := range candidates {
			k.Invalidate()
		}
	}()

	token, err := readToken(cmd, args)
	if err != nil {
		return err
	}

	skew := verifySkew
	if skew == 0 {
		skew = icfg.Skew()
	}

	claims, key, err := jwt.Decode(candidates, token, time.Now(), jwt.WithSkew(skew))
	if err != nil {
		logger.Debug("verification failed", "error", err)
		return err
	}
	logger.Debug("verified token", "kid", key.Kid())

	fmt.Fprintf(cmd.OutOrStdout(), "verified with kid %q\n%s\n", key.Kid(), claims.ReadableJSON(2))
	return nil
}

func loadCandidates(path string) ([]*jwk.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if set, err := jwk.ParseSet(data); err == nil {
		return set.Keys(), nil
	}
	key, err := jwk.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("josectl: parsing key: %w", err)
	}
	return []*jwk.Key{key}, nil
}

func readToken(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
