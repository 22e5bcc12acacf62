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

// Package jwt builds and verifies JSON Web Tokens (RFC 7519) on top of
// jose/jws. It owns claim stamping (iat/nbf/exp/jti), nested-JWT
// unwrapping, and the clock-skew policy applied to time-based claims.
package jwt

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deep-rent/joseid/base64url"
	"github.com/deep-rent/joseid/clock"
	"github.com/deep-rent/joseid/jose/jwa"
	"github.com/deep-rent/joseid/jose/jwk"
	"github.com/deep-rent/joseid/jose/jws"
	"github.com/deep-rent/joseid/json"
	"github.com/deep-rent/joseid/uuid"
)

// claimsDepthLimit bounds recursion when parsing a decoded claim set; a
// claim set is caller data and may legitimately nest deeper than a key or
// a header.
const claimsDepthLimit = 50

func claimsLimits() json.Limits {
	l := json.DefaultLimits()
	l.MaxRecursionDepth = claimsDepthLimit
	return l
}

var reservedClaims = map[string]bool{
	"iss": true, "sub": true, "aud": true,
	"exp": true, "nbf": true, "iat": true, "jti": true,
}

var reservedHeaders = map[string]bool{
	"alg": true, "typ": true, "cty": true, "kid": true, "enc": true,
}

// ClaimSet is a builder for a JWT's claims and JOSE header. The zero value
// is not usable; construct one with NewClaimSet. A ClaimSet is safe for
// concurrent use: every setter and getter acquires the instance's lock,
// and Sign snapshots claims, header, and the two time latches under it
// before finalizing a private copy.
type ClaimSet struct {
	mu sync.Mutex

	header *json.Value
	claims *json.Value

	duration  int64 // seconds; -1 means unset
	notBefore int64 // absolute unix seconds; <=0 means unset
}

// NewClaimSet returns an empty ClaimSet with no duration or not-before
// latch set.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{
		header:    json.NewObject(),
		claims:    json.NewObject(),
		duration:  -1,
		notBefore: -1,
	}
}

// SetIssuer sets the "iss" claim.
func (c *ClaimSet) SetIssuer(iss string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Set("iss", json.NewString(iss))
}

// SetSubject sets the "sub" claim.
func (c *ClaimSet) SetSubject(sub string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Set("sub", json.NewString(sub))
}

// AddAudience adds an audience to the "aud" claim. The first call sets a
// plain string claim; a second call promotes it in place to an array and
// appends, matching the on-wire convenience most JWT consumers expect.
func (c *ClaimSet) AddAudience(aud string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.claims.ExistsName("aud") {
		return c.claims.Set("aud", json.NewString(aud))
	}
	existing, err := c.claims.Get("aud")
	if err != nil {
		return err
	}
	switch {
	case existing.IsString():
		first, _ := existing.Text()
		arr := json.NewArray()
		_ = arr.Append(json.NewString(first))
		_ = arr.Append(json.NewString(aud))
		return c.claims.Set("aud", arr)
	case existing.IsArray():
		return existing.Append(json.NewString(aud))
	default:
		return wrap(`existing "aud" claim is neither a string nor an array`)
	}
}

// SetDuration latches the token's lifetime in seconds. At Sign time, if
// the latch was set (d >= 0), "exp" is emitted as not_before + d;
// otherwise "exp" is omitted.
func (c *ClaimSet) SetDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = int64(d / time.Second)
}

// SetNotBefore latches the earliest time the token is valid. At Sign time
// this is clamped forward to "now" if it names a time in the past, and
// "nbf" is emitted; a zero or unset latch omits "nbf" and treats
// not-before as "now".
func (c *ClaimSet) SetNotBefore(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notBefore = t.Unix()
}

// SetID sets the "jti" claim explicitly. If never called, Sign generates
// a fresh one.
func (c *ClaimSet) SetID(jti string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Set("jti", json.NewString(jti))
}

// AddClaim sets a free-form claim. It fails with ErrReservedClaim if name
// is one of the seven reserved claim names managed by the typed setters.
func (c *ClaimSet) AddClaim(name string, value *json.Value) error {
	if reservedClaims[name] {
		return fmt.Errorf("%w: %q", ErrReservedClaim, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Set(name, value)
}

// AddHeader sets a free-form JOSE header member. It fails with
// ErrReservedHeader if name is one of the five reserved header names
// ("alg" and "kid" are stamped by Sign, "cty" by NestedSign; "typ" and
// "enc" are never emitted).
func (c *ClaimSet) AddHeader(name string, value *json.Value) error {
	if reservedHeaders[name] {
		return fmt.Errorf("%w: %q", ErrReservedHeader, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header.Set(name, value)
}

// Claim returns a previously set claim by name.
func (c *ClaimSet) Claim(name string) (*json.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Get(name)
}

// Header returns a deep copy of the claim set's JOSE header as built so
// far, not including "alg"/"kid", which Sign stamps at signing time.
func (c *ClaimSet) Header() *json.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header.Clone()
}

// Claims returns a deep copy of the claim set's claims as built so far,
// not including the claims Sign stamps at finalization.
func (c *ClaimSet) Claims() *json.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims.Clone()
}

// finalize snapshots the claim set under its lock and stamps the
// time-based and identity claims onto a private copy, leaving the
// original ClaimSet untouched and reusable for further signing.
func (c *ClaimSet) finalize(now time.Time) (header, claims *json.Value) {
	c.mu.Lock()
	header = c.header.Clone()
	claims = c.claims.Clone()
	duration := c.duration
	notBefore := c.notBefore
	c.mu.Unlock()

	nowSec := now.Unix()
	nbf := nowSec
	if notBefore > 0 {
		nbf = notBefore
		if nbf < nowSec {
			nbf = nowSec
		}
		_ = claims.Set("nbf", json.NewInteger(nbf))
	}
	_ = claims.Set("iat", json.NewInteger(nowSec))
	if duration >= 0 {
		_ = claims.Set("exp", json.NewInteger(nbf+duration))
	}
	if !claims.ExistsName("jti") {
		_ = claims.Set("jti", json.NewString(uuid.NewV4().String()))
	}
	return header, claims
}

// signOptions carries the registry and clock a Sign/NestedSign call uses.
type signOptions struct {
	registry *jwa.Registry
	now      clock.Clock
}

// SignOption configures Sign and NestedSign.
type SignOption func(*signOptions)

// WithSignRegistry overrides the jwa.Registry consulted for the signing
// key's algorithm. Defaults to jwa.Default.
func WithSignRegistry(r *jwa.Registry) SignOption {
	return func(o *signOptions) { o.registry = r }
}

// WithSignClock overrides the clock used to compute "now" at finalization.
// Defaults to clock.SystemClock. Intended for tests.
func WithSignClock(c clock.Clock) SignOption {
	return func(o *signOptions) { o.now = c }
}

// Sign finalizes set (stamping iat/nbf/exp/jti) and produces a JWT in
// Compact Serialization, signed under key.
func Sign(key *jwk.Key, set *ClaimSet, opts ...SignOption) (string, error) {
	o := signOptions{registry: jwa.Default, now: clock.SystemClock()}
	for _, opt := range opts {
		opt(&o)
	}
	header, claims := set.finalize(o.now())
	return jws.SignCompact(o.registry, key, header, []byte(claims.ToJSON()))
}

// NestedSign wraps an existing compact JWT as the payload of a new JWS,
// marking the outer header "cty":"JWT" so Decode knows to unwrap it.
func NestedSign(key *jwk.Key, existingJWT string, opts ...SignOption) (string, error) {
	o := signOptions{registry: jwa.Default}
	for _, opt := range opts {
		opt(&o)
	}
	header := json.NewObject()
	_ = header.Set("cty", json.NewString("JWT"))
	return jws.SignCompact(o.registry, key, header, []byte(existingJWT))
}

// defaultSkew is the process-wide clock-skew default applied when a Decode
// call does not pass WithSkew explicitly. It is published through an
// atomic.Int64 since writes (SetDefaultSkew) are rare but reads happen on
// every verification.
var defaultSkew atomic.Int64

// MaxSkew is the upper bound SetDefaultSkew and WithSkew clamp to.
const MaxSkew = time.Hour

// SetDefaultSkew sets the process-wide default clock-skew tolerance,
// clamped to [0, MaxSkew]. The default until this is called is zero.
func SetDefaultSkew(d time.Duration) {
	defaultSkew.Store(int64(clampSkew(d)))
}

// DefaultSkew returns the current process-wide default clock-skew
// tolerance.
func DefaultSkew() time.Duration {
	return time.Duration(defaultSkew.Load())
}

func clampSkew(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxSkew {
		return MaxSkew
	}
	return d
}

// decodeOptions carries the registry and skew a Decode/InspectSigned call
// uses.
type decodeOptions struct {
	registry *jwa.Registry
	skew     time.Duration
}

// DecodeOption configures Decode and InspectSigned.
type DecodeOption func(*decodeOptions)

// WithDecodeRegistry overrides the jwa.Registry consulted for signature
// verification. Defaults to jwa.Default.
func WithDecodeRegistry(r *jwa.Registry) DecodeOption {
	return func(o *decodeOptions) { o.registry = r }
}

// WithSkew overrides the clock-skew tolerance for a single Decode call,
// clamped to [0, MaxSkew]. If not supplied, DefaultSkew is used.
func WithSkew(d time.Duration) DecodeOption {
	return func(o *decodeOptions) { o.skew = clampSkew(d) }
}

// ReDecodeNestedAmbiguousPayload controls whether the final, non-nested
// decode layer re-applies base64url decoding to a payload that merely
// looks like base64url text. RFC 7519 §7.1 step 8 reads as though a
// nested JWT payload should be decoded twice; this package works around
// the ambiguity heuristically, isolated behind this switch so the
// workaround can be disabled by policy if it ever produces a false
// positive against a legitimate claim set.
var ReDecodeNestedAmbiguousPayload = true

func reDecodeIfBase64URLish(payload []byte) []byte {
	if !ReDecodeNestedAmbiguousPayload || len(payload) == 0 {
		return payload
	}
	b := payload[0]
	looksB64 := (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
	if !looksB64 {
		return payload
	}
	dec, err := base64url.Decode(string(payload))
	if err != nil {
		return payload
	}
	return dec.Bytes()
}

func headerString(header *json.Value, name string) string {
	m, err := header.Get(name)
	if err != nil {
		return ""
	}
	s, _ := m.Text()
	return s
}

// decodeLoop implements the shared traversal RFC 7519 step 9 describes:
// extract one JWS layer, reject an encrypted header, and either unwrap a
// "cty":"JWT" nested payload and continue, or treat the payload as the
// final claim set. verifySig selects whether each layer's signature is
// checked (Decode, InspectSigned) or bypassed (Inspect).
func decodeLoop(token string, candidates []*jwk.Key, registry *jwa.Registry, verifySig bool) (*json.Value, *jwk.Key, error) {
	cur := token
	var key *jwk.Key
	for {
		var header *json.Value
		var payload []byte
		if verifySig {
			ex, err := jws.Extract(registry, candidates, cur)
			if err != nil {
				return nil, nil, err
			}
			header, payload, key = ex.Header, ex.Payload, ex.Key
		} else {
			h, p, err := decodeUnverified(cur)
			if err != nil {
				return nil, nil, err
			}
			header, payload = h, p
		}

		if header.ExistsName("enc") {
			return nil, nil, ErrEncryptedToken
		}

		if strings.EqualFold(headerString(header, "cty"), "JWT") {
			cur = string(payload)
			continue
		}

		payload = reDecodeIfBase64URLish(payload)
		claims, err := json.ParseObject(claimsLimits(), payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedNesting, err)
		}
		return claims, key, nil
	}
}

// decodeUnverified splits a compact token into its header and payload
// without checking the signature, for the diagnostic Inspect surface.
func decodeUnverified(token string) (header *json.Value, payload []byte, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, nil, jws.ErrMalformedCompact
	}
	headerBytes, err := base64url.Decode(parts[0])
	if err != nil {
		return nil, nil, wrap("header: %v", err)
	}
	l := json.DefaultLimits()
	l.MaxRecursionDepth = 20
	header, err = json.ParseObject(l, headerBytes.Bytes())
	if err != nil {
		return nil, nil, wrap("header: %v", err)
	}
	p, err := base64url.Decode(parts[1])
	if err != nil {
		return nil, nil, wrap("payload: %v", err)
	}
	return header, p.Bytes(), nil
}

func claimInt64(claims *json.Value, name string) (int64, bool, error) {
	m, err := claims.Get(name)
	if err != nil {
		return 0, false, nil
	}
	if m.IsInteger() {
		v, err := m.Integer()
		return v, true, err
	}
	s, err := m.Number()
	if err != nil {
		return 0, true, wrap("%q claim is not numeric", name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, wrap("%q claim is not numeric", name)
	}
	return int64(f), true, nil
}

// verifyTimeClaims checks "exp" and "nbf" against now, tolerating skew in
// the permissive direction for each. "iat" is informational only and is
// never checked here.
func verifyTimeClaims(claims *json.Value, now time.Time, skew time.Duration) error {
	nowSec := now.Unix()
	skewSec := int64(skew / time.Second)

	if exp, present, err := claimInt64(claims, "exp"); err != nil {
		return err
	} else if present && nowSec > exp+skewSec {
		return ErrTokenExpired
	}

	if nbf, present, err := claimInt64(claims, "nbf"); err != nil {
		return err
	} else if present && nowSec+skewSec < nbf {
		return ErrTokenNotYetValid
	}

	return nil
}

// Decode verifies a JWT's signature against candidates, unwraps any nested
// layers, and validates its "exp"/"nbf" claims against now, tolerating the
// configured clock skew (DefaultSkew unless WithSkew overrides it). On
// success it returns the innermost claim set alongside the key that
// verified its signing layer.
func Decode(candidates []*jwk.Key, token string, now time.Time, opts ...DecodeOption) (*json.Value, *jwk.Key, error) {
	o := decodeOptions{registry: jwa.Default, skew: DefaultSkew()}
	for _, opt := range opts {
		opt(&o)
	}
	claims, key, err := decodeLoop(token, candidates, o.registry, true)
	if err != nil {
		return nil, nil, err
	}
	if err := verifyTimeClaims(claims, now, o.skew); err != nil {
		return nil, nil, err
	}
	return claims, key, nil
}

// Inspect decodes a JWT's claim set without checking its signature or its
// time-based claims. It is a diagnostic surface only and must never be
// used to authorize a request.
func Inspect(token string) (*json.Value, error) {
	claims, _, err := decodeLoop(token, nil, jwa.Default, false)
	return claims, err
}

// InspectSigned verifies a JWT's signature against candidates and unwraps
// nested layers like Decode, but does not check "exp"/"nbf". It is a
// diagnostic surface only and must never be used to authorize a request.
func InspectSigned(candidates []*jwk.Key, token string, opts ...DecodeOption) (*json.Value, *jwk.Key, error) {
	o := decodeOptions{registry: jwa.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return decodeLoop(token, candidates, o.registry, true)
}
