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
	"crypto/rsa"
	"math/big"
	"slices"

	"github.com/deep-rent/joseid/base64url"
	"github.com/deep-rent/joseid/jose/jwa"
	"github.com/deep-rent/joseid/json"
)

// Supported values for the "kty" member.
const (
	KeyTypeOctet KeyType = "oct"
	KeyTypeRSA   KeyType = "RSA"
	KeyTypeEC    KeyType = "EC"
)

// KeyType is the JWK "kty" member.
type KeyType string

// Use values for the "use" member.
const (
	UseSignature    = "sig"
	UseEncryption   = "enc"
)

var keyOps = []string{
	"sign", "verify", "encrypt", "decrypt",
	"wrapKey", "unwrapKey", "deriveKey", "deriveBits",
}

// keyDepthLimit bounds recursion when parsing a single JWK; a key is a
// shallow object and never needs the generous depth a claim set gets.
const keyDepthLimit = 20

func keyLimits() json.Limits {
	l := json.DefaultLimits()
	l.MaxRecursionDepth = keyDepthLimit
	return l
}

// Key is a validated JSON Web Key. Its zero value is not usable; obtain one
// via Parse, ParsePEM, or one of the New* constructors.
type Key struct {
	v *json.Value
}

// Kty returns the key's "kty" member.
func (k *Key) Kty() KeyType {
	return KeyType(k.str("kty"))
}

// Kid returns the key's "kid" member. Unlike RFC 7517, this package treats
// kid as mandatory, so it is always non-empty on a validated Key.
func (k *Key) Kid() string {
	return k.str("kid")
}

// Alg returns the key's "alg" member, or "" if absent.
func (k *Key) Alg() string {
	return k.str("alg")
}

// Use returns the key's "use" member, or "" if absent.
func (k *Key) Use() string {
	return k.str("use")
}

// KeyOps returns the key's "key_ops" member, or nil if absent.
func (k *Key) KeyOps() []string {
	if !k.v.ExistsName("key_ops") {
		return nil
	}
	arr, err := k.v.Get("key_ops")
	if err != nil {
		return nil
	}
	out := make([]string, 0, arr.Count())
	for _, e := range arr.Elements() {
		if s, err := e.Text(); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// IsSigningKey reports whether this key is eligible to produce signatures:
// either its "use" is "sig", or its "key_ops" contains "sign". A key with
// neither member set is treated as eligible for both directions, matching
// RFC 7517's "absence ... means that the key may be used for any operation."
func (k *Key) IsSigningKey() bool {
	if ops := k.KeyOps(); len(ops) > 0 {
		return slices.Contains(ops, "sign")
	}
	if use := k.Use(); use != "" {
		return use == UseSignature
	}
	return true
}

// IsVerificationKey reports whether this key is eligible to verify
// signatures, symmetric to IsSigningKey.
func (k *Key) IsVerificationKey() bool {
	if ops := k.KeyOps(); len(ops) > 0 {
		return slices.Contains(ops, "verify")
	}
	if use := k.Use(); use != "" {
		return use == UseSignature
	}
	return true
}

// Value returns the underlying validated JSON object backing this key. The
// returned Value must not be mutated; use Clone if an independent copy is
// required.
func (k *Key) Value() *json.Value { return k.v }

// Clone returns a Key backed by an independent deep copy of the underlying
// JSON object.
func (k *Key) Clone() *Key { return &Key{v: k.v.Clone()} }

// Invalidate invalidates the key's backing JSON value (including any
// private key material) as json.Value.Invalidate does: string members are
// cleared, not overwritten in place. After Invalidate the Key must not be
// used again.
func (k *Key) Invalidate() { k.v.Invalidate() }

func (k *Key) str(name string) string {
	if !k.v.ExistsName(name) {
		return ""
	}
	m, err := k.v.Get(name)
	if err != nil {
		return ""
	}
	s, err := m.Text()
	if err != nil {
		return ""
	}
	return s
}

// Parse parses and schema-validates a single JWK from text.
func Parse(text []byte) (*Key, error) {
	v, err := json.ParseObject(keyLimits(), text)
	if err != nil {
		return nil, invalid("%v", err)
	}
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

func validate(k *Key) error {
	kty := k.str("kty")
	switch KeyType(kty) {
	case KeyTypeOctet, KeyTypeRSA, KeyTypeEC:
	case "":
		return invalid("missing required member \"kty\"")
	default:
		return invalid("unsupported key type %q", kty)
	}

	if alg := k.str("alg"); alg != "" {
		if !jwa.Default.Accepts(kty, alg) {
			return invalid("algorithm %q is not valid for key type %q", alg, kty)
		}
	}

	if k.v.ExistsName("key_ops") {
		for _, op := range k.KeyOps() {
			if !slices.Contains(keyOps, op) {
				return invalid("unrecognized key_ops entry %q", op)
			}
		}
	} else if use := k.str("use"); use != "" {
		if use != UseSignature && use != UseEncryption {
			return invalid("unrecognized use %q", use)
		}
	}

	if err := requireStringMembers(k, typeSpecificMembers(KeyType(kty), k)); err != nil {
		return err
	}

	if k.str("kid") == "" {
		return invalid("missing required member \"kid\"")
	}
	return nil
}

func requireStringMembers(k *Key, names []string) error {
	for _, name := range names {
		m, err := k.v.Get(name)
		if err != nil {
			return invalid("missing required member %q", name)
		}
		if !m.IsString() {
			return invalid("member %q must be a string", name)
		}
	}
	return nil
}

func typeSpecificMembers(kty KeyType, k *Key) []string {
	switch kty {
	case KeyTypeOctet:
		return []string{"k"}
	case KeyTypeRSA:
		if k.v.ExistsName("d") {
			return []string{"n", "e", "d", "p", "q"}
		}
		return []string{"n", "e"}
	case KeyTypeEC:
		if k.v.ExistsName("d") {
			return []string{"crv", "x", "y", "d"}
		}
		return []string{"crv", "x", "y"}
	default:
		return nil
	}
}

// Material decodes this key's cryptographic material into a concrete Go
// type suitable for passing to a jwa.Algorithm: []byte for oct,
// *rsa.PublicKey or *rsa.PrivateKey for RSA. EC keys decode to an
// ECMaterial, since no built-in jwa.Algorithm consumes EC material
// directly; an externally registered algorithm is expected to interpret
// it.
func (k *Key) Material() (any, error) {
	switch k.Kty() {
	case KeyTypeOctet:
		return k.decodeOctet()
	case KeyTypeRSA:
		return k.decodeRSA()
	case KeyTypeEC:
		return k.decodeEC()
	default:
		return nil, invalid("unsupported key type %q", k.Kty())
	}
}

func (k *Key) decodeB64(name string) ([]byte, error) {
	s := k.str(name)
	p, err := base64url.Decode(s)
	if err != nil {
		return nil, invalid("member %q: %v", name, err)
	}
	return p.Bytes(), nil
}

func (k *Key) decodeOctet() ([]byte, error) {
	return k.decodeB64("k")
}

func (k *Key) decodeRSA() (any, error) {
	n, err := k.decodeB64("n")
	if err != nil {
		return nil, err
	}
	e, err := k.decodeB64("e")
	if err != nil {
		return nil, err
	}
	if len(e) == 0 || len(e) > 4 {
		return nil, invalid("RSA public exponent has an unsupported length")
	}
	exp := 0
	for _, b := range e {
		exp = (exp << 8) | int(b)
	}
	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: exp}
	if !k.v.ExistsName("d") {
		return pub, nil
	}
	d, err := k.decodeB64("d")
	if err != nil {
		return nil, err
	}
	p, err := k.decodeB64("p")
	if err != nil {
		return nil, err
	}
	q, err := k.decodeB64("q")
	if err != nil {
		return nil, err
	}
	priv := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(d),
		Primes:    []*big.Int{new(big.Int).SetBytes(p), new(big.Int).SetBytes(q)},
	}
	priv.Precompute()
	return priv, nil
}

// ECMaterial holds the decoded, but cryptographically uninterpreted,
// components of an EC JWK. Concrete EC signing/verification is out of
// scope here; a caller wiring in an external algorithm converts these
// components into its own curve point type.
type ECMaterial struct {
	Curve string
	X, Y  []byte
	D     []byte // present only for a private key
}

func (k *Key) decodeEC() (*ECMaterial, error) {
	x, err := k.decodeB64("x")
	if err != nil {
		return nil, err
	}
	y, err := k.decodeB64("y")
	if err != nil {
		return nil, err
	}
	mat := &ECMaterial{Curve: k.str("crv"), X: x, Y: y}
	if k.v.ExistsName("d") {
		d, err := k.decodeB64("d")
		if err != nil {
			return nil, err
		}
		mat.D = d
	}
	return mat, nil
}

// NewOctet builds a validated symmetric (oct) Key from raw secret bytes.
func NewOctet(kid, alg string, secret []byte) (*Key, error) {
	v := json.NewObject()
	_ = v.Add("kty", json.NewString(string(KeyTypeOctet)))
	_ = v.Add("kid", json.NewString(kid))
	if alg != "" {
		_ = v.Add("alg", json.NewString(alg))
	}
	_ = v.Add("k", json.NewString(base64url.Encode(secret)))
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

// NewRSAPublic builds a validated RSA public Key.
func NewRSAPublic(kid, alg string, pub *rsa.PublicKey) (*Key, error) {
	v := json.NewObject()
	_ = v.Add("kty", json.NewString(string(KeyTypeRSA)))
	_ = v.Add("kid", json.NewString(kid))
	if alg != "" {
		_ = v.Add("alg", json.NewString(alg))
	}
	_ = v.Add("n", json.NewString(base64url.Encode(pub.N.Bytes())))
	_ = v.Add("e", json.NewString(base64url.Encode(encodeExponent(pub.E))))
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

// NewRSAPrivate builds a validated RSA private Key. priv must have exactly
// two primes (standard two-prime RSA); multi-prime keys are rejected,
// matching the "p,q" pair the JWK schema names.
func NewRSAPrivate(kid, alg string, priv *rsa.PrivateKey) (*Key, error) {
	if len(priv.Primes) != 2 {
		return nil, invalid("multi-prime RSA keys are not supported")
	}
	v := json.NewObject()
	_ = v.Add("kty", json.NewString(string(KeyTypeRSA)))
	_ = v.Add("kid", json.NewString(kid))
	if alg != "" {
		_ = v.Add("alg", json.NewString(alg))
	}
	_ = v.Add("n", json.NewString(base64url.Encode(priv.N.Bytes())))
	_ = v.Add("e", json.NewString(base64url.Encode(encodeExponent(priv.E))))
	_ = v.Add("d", json.NewString(base64url.Encode(priv.D.Bytes())))
	_ = v.Add("p", json.NewString(base64url.Encode(priv.Primes[0].Bytes())))
	_ = v.Add("q", json.NewString(base64url.Encode(priv.Primes[1].Bytes())))
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

// NewECPublic builds a validated EC public Key from raw coordinate bytes.
// crv must be the JWA curve name ("P-256", "P-384", "P-521").
func NewECPublic(kid, crv string, x, y []byte) (*Key, error) {
	v := json.NewObject()
	_ = v.Add("kty", json.NewString(string(KeyTypeEC)))
	_ = v.Add("kid", json.NewString(kid))
	_ = v.Add("crv", json.NewString(crv))
	_ = v.Add("x", json.NewString(base64url.Encode(x)))
	_ = v.Add("y", json.NewString(base64url.Encode(y)))
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

// NewECPrivate builds a validated EC private Key from raw coordinate and
// scalar bytes.
func NewECPrivate(kid, crv string, x, y, d []byte) (*Key, error) {
	v := json.NewObject()
	_ = v.Add("kty", json.NewString(string(KeyTypeEC)))
	_ = v.Add("kid", json.NewString(kid))
	_ = v.Add("crv", json.NewString(crv))
	_ = v.Add("x", json.NewString(base64url.Encode(x)))
	_ = v.Add("y", json.NewString(base64url.Encode(y)))
	_ = v.Add("d", json.NewString(base64url.Encode(d)))
	k := &Key{v: v}
	if err := validate(k); err != nil {
		return nil, err
	}
	return k, nil
}

func encodeExponent(e int) []byte {
	if e == 0 {
		return []byte{0}
	}
	var b []byte
	for e > 0 {
		b = append([]byte{byte(e & 0xff)}, b...)
		e >>= 8
	}
	return b
}
