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

// Package jws implements JSON Web Signature (RFC 7515) Compact
// Serialization: signing a payload under a jwk.Key and extracting a
// verified payload back out of a compact string. JWS JSON Serialization
// is not implemented.
package jws

import (
	"errors"
	"fmt"
)

// ErrJWS is the sentinel every error this package returns wraps.
var ErrJWS = errors.New("jws: invalid")

// ErrNotSigningKey signals that SignCompact was handed a key that is not
// eligible to produce signatures (see jwk.Key.IsSigningKey).
var ErrNotSigningKey = fmt.Errorf("%w: key is not eligible for signing", ErrJWS)

// ErrMalformedCompact signals that input does not have the three-segment
// shape of a JWS in Compact Serialization.
var ErrMalformedCompact = fmt.Errorf("%w: malformed compact serialization", ErrJWS)

// ErrSignatureInvalid signals that no candidate key verified the
// signature.
var ErrSignatureInvalid = fmt.Errorf("%w: signature verification failed", ErrJWS)

func wrap(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrJWS, fmt.Sprintf(format, args...))
}
