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
	"errors"
	"fmt"
)

// ErrJWT is the sentinel every error this package returns wraps.
var ErrJWT = errors.New("jwt: invalid")

// ErrReservedClaim signals an attempt to set a reserved claim name through
// the generic AddClaim API.
var ErrReservedClaim = fmt.Errorf("%w: claim name is reserved", ErrJWT)

// ErrReservedHeader signals an attempt to set a reserved header name
// through the generic AddHeader API.
var ErrReservedHeader = fmt.Errorf("%w: header name is reserved", ErrJWT)

// ErrEncryptedToken signals that a token's header carries "enc"; JWE is
// not implemented.
var ErrEncryptedToken = fmt.Errorf("%w: encrypted tokens are not supported", ErrJWT)

// ErrMalformedNesting signals that the innermost payload, after any
// "cty":"JWT" layers have been unwrapped, could not be parsed as a JSON
// claim set. A "cty":"JWT" payload that is not a compact JWT fails with
// the next layer's jws error instead.
var ErrMalformedNesting = fmt.Errorf("%w: nested payload is not a JWT", ErrJWT)

// ErrTokenExpired signals that "exp" (adjusted for skew) is in the past
// relative to the verification time.
var ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrJWT)

// ErrTokenNotYetValid signals that "nbf" (adjusted for skew) is in the
// future relative to the verification time.
var ErrTokenNotYetValid = fmt.Errorf("%w: token is not yet valid", ErrJWT)

func wrap(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrJWT, fmt.Sprintf(format, args...))
}
