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
	"crypto"
	"hash"
	"sync"
)

// hashPool manages a pool of hash.Hash objects to reduce allocations on
// the sign/verify hot path.
type hashPool struct {
	Hash crypto.Hash
	pool *sync.Pool
}

func newHashPool(h crypto.Hash) *hashPool {
	return &hashPool{
		Hash: h,
		pool: &sync.Pool{New: func() any { return h.New() }},
	}
}

func newSHA256Pool() *hashPool { return newHashPool(crypto.SHA256) }
func newSHA384Pool() *hashPool { return newHashPool(crypto.SHA384) }
func newSHA512Pool() *hashPool { return newHashPool(crypto.SHA512) }

// Get retrieves a hash.Hash from the pool.
func (p *hashPool) Get() hash.Hash {
	h := p.pool.Get().(hash.Hash)
	h.Reset()
	return h
}

// Put returns a hash.Hash to the pool.
func (p *hashPool) Put(h hash.Hash) {
	p.pool.Put(h)
}
