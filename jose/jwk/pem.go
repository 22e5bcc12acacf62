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

package jwk

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/deep-rent/joseid/json"
	"github.com/youmark/pkcs8"
)

func jsonString(s string) *json.Value { return json.NewString(s) }

// ParsePEM scans text for the first PEM block whose label this package
// recognizes (RSA PRIVATE KEY, EC PRIVATE KEY, RSA PUBLIC KEY, PUBLIC KEY,
// plus PKCS#8 private keys under PRIVATE KEY and ENCRYPTED PRIVATE KEY),
// decodes the key material, and wraps it as a validated Key.
// Unrecognized labels are skipped. password is used only for an
// ENCRYPTED PRIVATE KEY block; pass nil otherwise. use and kid populate
// the resulting JWK's corresponding members; alg does too for RSA keys,
// and is ignored for EC keys.
func ParsePEM(text []byte, password []byte, use, alg, kid string) (*Key, error) {
	rest := text
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoKeyBlock
		}
		key, err := decodeBlock(block, password)
		if err == ErrNoKeyBlock {
			continue
		}
		if err != nil {
			return nil, invalid("parsing %s block: %v", block.Type, err)
		}
		return wrapKeyMaterial(key, use, alg, kid)
	}
}

func decodeBlock(block *pem.Block, password []byte) (any, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		return x509.ParsePKIXPublicKey(block.Bytes)
	case "PRIVATE KEY":
		return x509.ParsePKCS8PrivateKey(block.Bytes)
	case "ENCRYPTED PRIVATE KEY":
		return pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
	default:
		return nil, ErrNoKeyBlock
	}
}

func wrapKeyMaterial(raw any, use, alg, kid string) (*Key, error) {
	switch mat := raw.(type) {
	case *rsa.PrivateKey:
		return keyFromRSAPrivate(mat, use, alg, kid)
	case *rsa.PublicKey:
		return keyFromRSAPublic(mat, use, alg, kid)
	case *ecdsa.PrivateKey:
		return keyFromECPrivate(mat, use, alg, kid)
	case *ecdsa.PublicKey:
		return keyFromECPublic(mat, use, alg, kid)
	default:
		return nil, invalid("unsupported PEM key material type %T", raw)
	}
}

func keyFromRSAPrivate(priv *rsa.PrivateKey, use, alg, kid string) (*Key, error) {
	k, err := NewRSAPrivate(kid, alg, priv)
	if err != nil {
		return nil, err
	}
	return applyUse(k, use)
}

func keyFromRSAPublic(pub *rsa.PublicKey, use, alg, kid string) (*Key, error) {
	k, err := NewRSAPublic(kid, alg, pub)
	if err != nil {
		return nil, err
	}
	return applyUse(k, use)
}

func keyFromECPrivate(priv *ecdsa.PrivateKey, use, _, kid string) (*Key, error) {
	size := (priv.Curve.Params().BitSize + 7) / 8
	x := make([]byte, size)
	y := make([]byte, size)
	priv.X.FillBytes(x)
	priv.Y.FillBytes(y)
	d := make([]byte, size)
	priv.D.FillBytes(d)
	k, err := NewECPrivate(kid, priv.Curve.Params().Name, x, y, d)
	if err != nil {
		return nil, err
	}
	return applyUse(k, use)
}

func keyFromECPublic(pub *ecdsa.PublicKey, use, _, kid string) (*Key, error) {
	size := (pub.Curve.Params().BitSize + 7) / 8
	x := make([]byte, size)
	y := make([]byte, size)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)
	k, err := NewECPublic(kid, pub.Curve.Params().Name, x, y)
	if err != nil {
		return nil, err
	}
	return applyUse(k, use)
}

func applyUse(k *Key, use string) (*Key, error) {
	if use == "" {
		return k, nil
	}
	if err := k.v.Add("use", jsonString(use)); err != nil {
		return nil, invalid("%v", err)
	}
	return k, nil
}
