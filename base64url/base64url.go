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

// Package base64url implements the unpadded base64url alphabet (RFC 4648
// §5) used throughout compact JOSE serialization: every JWS and JWT
// segment, and every symmetric JWK member, is base64url text with the '='
// padding stripped.
package base64url

import (
	"encoding/base64"
	"errors"

	"github.com/deep-rent/joseid/internal/secure"
)

// ErrMalformed signals that input text is not valid unpadded base64url.
var ErrMalformed = errors.New("base64url: malformed input")

var enc = base64.RawURLEncoding

// Encode returns the unpadded base64url encoding of data.
func Encode(data []byte) string {
	return enc.EncodeToString(data)
}

// Decode parses s as unpadded base64url text and returns the decoded bytes
// wrapped in a Payload, which a caller holding credential material should
// Erase once it is no longer needed.
func Decode(s string) (*Payload, error) {
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, ErrMalformed
	}
	return &Payload{b: b}, nil
}

// Payload is a decoded base64url segment, owned by the caller. Its
// contents may be credential bytes (an HMAC key, a signature, a token
// segment), so it offers an explicit Erase rather than relying on the
// garbage collector to clear them on some unspecified schedule.
type Payload struct {
	b []byte
}

// Bytes returns the decoded bytes. The returned slice shares storage with
// the Payload and must not be retained past a call to Erase.
func (p *Payload) Bytes() []byte {
	if p == nil {
		return nil
	}
	return p.b
}

// Len returns the number of decoded bytes.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.b)
}

// Erase overwrites the decoded bytes with zeroes. After Erase, the Payload
// must not be used again.
func (p *Payload) Erase() {
	if p == nil {
		return
	}
	secure.Erase(p.b)
	p.b = nil
}
