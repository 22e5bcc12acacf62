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

package jwa

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// rs implements the RSASSA-PKCS1-v1.5 family of algorithms (RSxxx) against
// RSA JWKs.
type rs struct {
	name string
	pool *hashPool
}

func newRS(name string, pool *hashPool) Algorithm {
	return &rs{name: name, pool: pool}
}

func (a *rs) String() string   { return a.name }
func (a *rs) KeyType() KeyType { return KeyTypeRSA }

func (a *rs) Sign(key any, data []byte) ([]byte, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires an RSA private key", ErrKeyMismatch, a.name)
	}
	digest := a.digest(data)
	return rsa.SignPKCS1v15(rand.Reader, priv, a.pool.Hash, digest)
}

func (a *rs) Verify(key any, data, sig []byte) bool {
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return false
	}
	digest := a.digest(data)
	return rsa.VerifyPKCS1v15(pub, a.pool.Hash, digest, sig) == nil
}

func (a *rs) digest(data []byte) []byte {
	h := a.pool.Get()
	defer a.pool.Put(h)
	h.Write(data)
	return h.Sum(nil)
}
