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
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deep-rent/joseid/jose/jwk"
)

var (
	keygenKty        string
	keygenAlg        string
	keygenKid        string
	keygenBits       int
	keygenSecretSize int
	keygenOut        string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a JWK and write it to a file or stdout",
	RunE:  runKeygen,
}

func init() {
	f := keygenCmd.Flags()
	f.StringVar(&keygenKty, "kty", "oct", `key type: "oct" or "RSA"`)
	f.StringVar(&keygenAlg, "alg", "HS256", "JWA algorithm to stamp on the key")
	f.StringVar(&keygenKid, "kid", "", "key ID (required)")
	f.IntVar(&keygenBits, "bits", 2048, "RSA modulus size in bits, for --kty RSA")
	f.IntVar(&keygenSecretSize, "secret-bytes", 32, "oct secret length in bytes, for --kty oct")
	f.StringVar(&keygenOut, "out", "", "output file path; stdout if empty")
	_ = keygenCmd.MarkFlagRequired("kid")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := generateKey()
	if err != nil {
		return err
	}
	defer key.Invalidate()
	logger.Debug("generated key", "kty", keygenKty, "kid", keygenKid)

	out := []byte(key.Value().ToJSON() + "\n")
	if keygenOut == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return os.WriteFile(keygenOut, out, 0600)
}

func generateKey() (*jwk.Key, error) {
	switch keygenKty {
	case "oct":
		secret := make([]byte, keygenSecretSize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("josectl: generating secret: %w", err)
		}
		return jwk.NewOctet(keygenKid, keygenAlg, secret)
	case "RSA":
		priv, err := rsa.GenerateKey(rand.Reader, keygenBits)
		if err != nil {
			return nil, fmt.Errorf("josectl: generating RSA key: %w", err)
		}
		return jwk.NewRSAPrivate(keygenKid, keygenAlg, priv)
	default:
		return nil, fmt.Errorf("josectl: unsupported key type %q", keygenKty)
	}
}
