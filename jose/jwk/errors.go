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

// Package jwk implements JSON Web Keys and JSON Web Key Sets (RFC 7517)
// backed by the json package's value model, with schema validation against
// the jwa algorithm registry.
package jwk

import (
	"errors"
	"fmt"
)

// ErrJWK is the sentinel every error this package returns wraps.
var ErrJWK = errors.New("jwk: invalid key")

// ErrDuplicateKeyID signals an attempt to add a key whose kid is already
// present in a Set.
var ErrDuplicateKeyID = fmt.Errorf("%w: duplicate key id", ErrJWK)

// ErrKeyNotFound signals a lookup for a kid absent from a Set.
var ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrJWK)

// ErrNoKeyBlock signals that PEM input contained no block this package
// recognizes.
var ErrNoKeyBlock = fmt.Errorf("%w: no recognized PEM key block", ErrJWK)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrJWK, fmt.Sprintf(format, args...))
}
