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

// Package jwa implements the JSON Web Algorithms (JWA, RFC 7518) registry:
// a process-wide, initialize-once table mapping an algorithm identifier to
// its signing and verification capability.
//
// Registration happens once at program init; Lookup and Accepts are
// lock-free-friendly reads guarded by a RWMutex that is essentially never
// contended in practice. The "none" algorithm is always registered, per
// RFC 7518 §3.6, but its Verify always fails unless a caller explicitly
// opts in via AllowNoneVerification — presenting alg: none on an inbound
// JWS must never silently succeed.
package jwa

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrUnknownAlgorithm signals a lookup for an algorithm identifier that was
// never registered.
var ErrUnknownAlgorithm = errors.New("jwa: unknown algorithm")

// ErrKeyMismatch signals that the key material handed to Sign or Verify is
// not of the type this algorithm requires (e.g. a string where HMAC needs
// raw key bytes).
var ErrKeyMismatch = errors.New("jwa: key material incompatible with algorithm")

// ErrNoneDisabled signals that signing with alg: none was attempted
// without the caller having opted in via AllowNoneVerification.
// Verification under none does not return it: Verify reports false.
var ErrNoneDisabled = errors.New("jwa: none algorithm verification is disabled")

// KeyType is the JWK "kty" value an Algorithm's key material must satisfy.
type KeyType string

const (
	KeyTypeOctet KeyType = "oct"
	KeyTypeRSA   KeyType = "RSA"
	KeyTypeNone  KeyType = "none"
)

// Algorithm is the capability a registered JWA identifier provides: turning
// a signing input into a signature, and checking a signature against a
// signing input, both keyed off opaque key material supplied by the
// caller (a JWK's decoded key bytes, or a parsed RSA key).
type Algorithm interface {
	fmt.Stringer

	// KeyType reports the JWK "kty" this algorithm's key material must
	// have, used by the acceptance predicate.
	KeyType() KeyType

	// Sign computes a signature over data using key. It fails with
	// ErrKeyMismatch if key is not of the type this algorithm requires.
	Sign(key any, data []byte) ([]byte, error)

	// Verify reports whether sig is a valid signature over data under
	// key. Comparison is constant-time. It returns false, never panics,
	// for incompatible key material.
	Verify(key any, data, sig []byte) bool
}

// Registry is a table of registered Algorithms keyed by their JWA name.
// Use NewRegistry; the zero value has a nil map and is not usable. Default
// is the process-wide registry pre-populated with HS256/384/512,
// RS256/384/512, and none.
type Registry struct {
	mu   sync.RWMutex
	algs map[string]Algorithm

	allowNone atomic.Bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{algs: make(map[string]Algorithm)}
}

// Register adds alg under its String() name, overwriting any prior
// registration under that name. Additional algorithm families beyond the
// built-in set are wired in this way.
func (r *Registry) Register(alg Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algs[alg.String()] = alg
}

// Lookup returns the Algorithm registered under name, or
// ErrUnknownAlgorithm.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	r.mu.RLock()
	alg, ok := r.algs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// Accepts reports whether algorithm name is a valid choice for a JWK whose
// "kty" is kty. It is the predicate the JWK schema validator consults.
func (r *Registry) Accepts(kty, name string) bool {
	alg, err := r.Lookup(name)
	if err != nil {
		return false
	}
	return string(alg.KeyType()) == kty
}

// AllowNoneVerification toggles whether the "none" algorithm's Verify may
// succeed. It is process-wide and defaults to false. Flips are rare and
// published to concurrent readers through an atomic.Bool rather than the
// registry's mutex.
func (r *Registry) AllowNoneVerification(allow bool) {
	r.allowNone.Store(allow)
}

func (r *Registry) noneVerificationAllowed() bool {
	return r.allowNone.Load()
}

// Default is the process-wide registry populated at package init with the
// algorithm families named in the external interface: HMAC, RSA PKCS#1
// v1.5, and the degenerate none.
var Default = NewRegistry()

func init() {
	Default.Register(newHMAC("HS256", newSHA256Pool()))
	Default.Register(newHMAC("HS384", newSHA384Pool()))
	Default.Register(newHMAC("HS512", newSHA512Pool()))
	Default.Register(newRS("RS256", newSHA256Pool()))
	Default.Register(newRS("RS384", newSHA384Pool()))
	Default.Register(newRS("RS512", newSHA512Pool()))
	Default.Register(newNone(Default))
}
