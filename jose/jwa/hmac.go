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
	"crypto/hmac"
	_ "crypto/sha256" // register crypto.SHA256/SHA384
	_ "crypto/sha512" // register crypto.SHA512
	"fmt"
)

// hs implements the HMAC family of algorithms (HSxxx) against oct JWKs.
type hs struct {
	name string
	pool *hashPool
}

func newHMAC(name string, pool *hashPool) Algorithm {
	return &hs{name: name, pool: pool}
}

func (a *hs) String() string     { return a.name }
func (a *hs) KeyType() KeyType   { return KeyTypeOctet }

func (a *hs) Sign(key any, data []byte) ([]byte, error) {
	secret, ok := key.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires oct key bytes", ErrKeyMismatch, a.name)
	}
	mac := hmac.New(a.pool.Hash.New, secret)
	mac.Write(data)
	return mac.Sum(nil), nil
}

func (a *hs) Verify(key any, data, sig []byte) bool {
	secret, ok := key.([]byte)
	if !ok {
		return false
	}
	mac := hmac.New(a.pool.Hash.New, secret)
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), sig)
}
