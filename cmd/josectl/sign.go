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
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deep-rent/joseid/jose/jwk"
	"github.com/deep-rent/joseid/jose/jwt"
	"github.com/deep-rent/joseid/json"
)

var (
	signKeyFile   string
	signIssuer    string
	signSubject   string
	signAudience  []string
	signTTL       time.Duration
	signNotBefore time.Duration
	signJTI       string
	signClaims    []string
	signOut       string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a new JWT",
	RunE:  runSign,
}

func init() {
	f := signCmd.Flags()
	f.StringVar(&signKeyFile, "key", "", "path to the signing JWK (falls back to --config key_file)")
	f.StringVar(&signIssuer, "iss", "", "issuer claim (falls back to --config issuer)")
	f.StringVar(&signSubject, "sub", "", "subject claim")
	f.StringArrayVar(&signAudience, "aud", nil, "audience claim; repeat for multiple recipients (falls back to --config audience)")
	f.DurationVar(&signTTL, "ttl", 0, `token lifetime, e.g. "15m"; omit for a token with no "exp"`)
	f.DurationVar(&signNotBefore, "nbf", 0, "delay before the token becomes valid, relative to now")
	f.StringVar(&signJTI, "jti", "", "token ID; a random one is generated if omitted")
	f.StringArrayVar(&signClaims, "claim", nil, "additional string claim as name=value; may be repeated")
	f.StringVar(&signOut, "out", "", "output file path; stdout if empty")
}

func runSign(cmd *cobra.Command, args []string) error {
	icfg, err := loadIssuerConfig(cfgFile)
	if err != nil {
		return err
	}

	keyFile := signKeyFile
	if keyFile == "" {
		keyFile = icfg.KeyFile
	}
	if keyFile == "" {
		return fmt.Errorf("josectl: no signing key given; pass --key or set key_file in --config")
	}
	keyBytes, err := os.ReadFile(keyFile)
	if err != nil {
		return err
	}
	key, err := jwk.Parse(keyBytes)
	if err != nil {
		return fmt.Errorf("josectl: parsing key: %w", err)
	}
	defer key.Invalidate()

	issuer := signIssuer
	if issuer == "" {
		issuer = icfg.Issuer
	}
	audience := signAudience
	if len(audience) == 0 {
		audience = icfg.Audience
	}

	set := jwt.NewClaimSet()
	if issuer != "" {
		if err := set.SetIssuer(issuer); err != nil {
			return err
		}
	}
	if signSubject != "" {
		if err := set.SetSubject(signSubject); err != nil {
			return err
		}
	}
	for _, aud := range audience {
		if err := set.AddAudience(aud); err != nil {
			return err
		}
	}
	if signTTL > 0 {
		set.SetDuration(signTTL)
	}
	if signNotBefore > 0 {
		set.SetNotBefore(time.Now().Add(signNotBefore))
	}
	if signJTI != "" {
		if err := set.SetID(signJTI); err != nil {
			return err
		}
	}
	for _, kv := range signClaims {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("josectl: malformed --claim %q, want name=value", kv)
		}
		if err := set.AddClaim(name, json.NewString(value)); err != nil {
			return err
		}
	}

	token, err := jwt.Sign(key, set)
	if err != nil {
		return err
	}
	logger.Debug("signed token", "kid", key.Kid())

	out := []byte(token + "\n")
	if signOut == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return os.WriteFile(signOut, out, 0600)
}
