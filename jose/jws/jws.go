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

package jws

import (
	"strings"

	"github.com/deep-rent/joseid/base64url"
	"github.com/deep-rent/joseid/jose/jwa"
	"github.com/deep-rent/joseid/jose/jwk"
	"github.com/deep-rent/joseid/json"
)

// headerDepthLimit bounds recursion when decoding a JWS header segment; a
// header is a shallow object like a JWK.
const headerDepthLimit = 20

func headerLimits() json.Limits {
	l := json.DefaultLimits()
	l.MaxRecursionDepth = headerDepthLimit
	return l
}

// SignCompact produces a JWS in Compact Serialization over payload, signed
// under key. If header is non-nil its members are copied into the
// resulting JOSE header, but "alg" and "kid" are always overwritten from
// key regardless of what header supplied.
func SignCompact(registry *jwa.Registry, key *jwk.Key, header *json.Value, payload []byte) (string, error) {
	if !key.IsSigningKey() {
		return "", ErrNotSigningKey
	}
	alg, err := registry.Lookup(key.Alg())
	if err != nil {
		return "", wrap("%v", err)
	}

	h := json.NewObject()
	if header != nil {
		for _, name := range header.Names() {
			m, _ := header.Get(name)
			_ = h.Set(name, m.Clone())
		}
	}
	_ = h.Set("alg", json.NewString(key.Alg()))
	_ = h.Set("kid", json.NewString(key.Kid()))

	encodedHeader := base64url.Encode([]byte(h.ToJSON()))
	encodedPayload := base64url.Encode(payload)
	signingInput := encodedHeader + "." + encodedPayload

	mat, err := key.Material()
	if err != nil {
		return "", wrap("%v", err)
	}
	sig, err := alg.Sign(mat, []byte(signingInput))
	if err != nil {
		return "", wrap("signing failed: %v", err)
	}
	return signingInput + "." + base64url.Encode(sig), nil
}

// Extracted is the result of a successful Extract call.
type Extracted struct {
	Header  *json.Value
	Key     *jwk.Key
	Payload []byte
}

func isBase64URLByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// Extract splits jws into its three segments, decodes and validates the
// header, selects a verifying key from candidates, and returns the
// decoded payload alongside the key that verified it.
//
// Key selection: if the header carries a kid present among candidates,
// that key must be the one used — an algorithm mismatch or failed
// signature under it is not papered over by trying another candidate. If
// the header's kid is absent from candidates, or the header carries no
// kid at all, every candidate eligible for verification under the
// header's algorithm is tried in order; the first to verify wins.
func Extract(registry *jwa.Registry, candidates []*jwk.Key, jws string) (*Extracted, error) {
	if jws == "" {
		return nil, wrap("empty input")
	}
	if !isBase64URLByte(jws[0]) {
		return nil, wrap("input is not compact serialization")
	}
	parts := strings.Split(jws, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedCompact
	}

	headerBytes, err := base64url.Decode(parts[0])
	if err != nil {
		return nil, wrap("header: %v", err)
	}
	header, err := json.ParseObject(headerLimits(), headerBytes.Bytes())
	if err != nil {
		return nil, wrap("header: %v", err)
	}
	algMember, err := header.Get("alg")
	if err != nil {
		return nil, wrap(`header missing required member "alg"`)
	}
	algName, err := algMember.Text()
	if err != nil {
		return nil, wrap(`header member "alg" must be a string`)
	}
	alg, err := registry.Lookup(algName)
	if err != nil {
		return nil, wrap("%v", err)
	}

	signingInput := parts[0] + "." + parts[1]
	sigPayload, err := base64url.Decode(parts[2])
	if err != nil {
		return nil, wrap("signature: %v", err)
	}

	kid := ""
	if kidMember, err := header.Get("kid"); err == nil {
		kid, _ = kidMember.Text()
	}

	missingKid := false
	if kid != "" {
		var hinted *jwk.Key
		for _, c := range candidates {
			if c.Kid() == kid {
				hinted = c
				break
			}
		}
		if hinted != nil {
			if hinted.Alg() != algName || !hinted.IsVerificationKey() {
				return nil, ErrSignatureInvalid
			}
			mat, err := hinted.Material()
			if err != nil {
				return nil, wrap("%v", err)
			}
			if !alg.Verify(mat, []byte(signingInput), sigPayload.Bytes()) {
				return nil, ErrSignatureInvalid
			}
			payload, err := base64url.Decode(parts[1])
			if err != nil {
				return nil, wrap("payload: %v", err)
			}
			return &Extracted{Header: header, Key: hinted, Payload: payload.Bytes()}, nil
		}
		missingKid = true
	}

	for _, c := range candidates {
		if c.Alg() != algName || !c.IsVerificationKey() {
			continue
		}
		mat, err := c.Material()
		if err != nil {
			continue
		}
		if alg.Verify(mat, []byte(signingInput), sigPayload.Bytes()) {
			payload, err := base64url.Decode(parts[1])
			if err != nil {
				return nil, wrap("payload: %v", err)
			}
			return &Extracted{Header: header, Key: c, Payload: payload.Bytes()}, nil
		}
	}

	if missingKid {
		return nil, wrap("%v: no candidate carries kid %q", ErrSignatureInvalid, kid)
	}
	return nil, ErrSignatureInvalid
}
