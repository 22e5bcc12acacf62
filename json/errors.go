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

package json

import (
	"errors"
	"fmt"
)

// Sentinel errors for the value model and parser. Callers compare against
// these with errors.Is; a failed call always wraps one of them, so the
// specific member/index/text involved is available in the message without
// being load-bearing for control flow.
var (
	// ErrMalformedJSON signals a syntax failure while parsing.
	ErrMalformedJSON = errors.New("json: malformed input")
	// ErrLimitViolation signals that a configured Limits threshold was
	// exceeded while parsing.
	ErrLimitViolation = errors.New("json: limit exceeded")
	// ErrNotJSONObject signals that the top-level parsed value is not an
	// object where the caller required one.
	ErrNotJSONObject = errors.New("json: top-level value is not an object")
	// ErrIncompatibleType signals that a value is not of the type an
	// operation requires (e.g. calling Bool() on a string).
	ErrIncompatibleType = errors.New("json: incompatible type")
	// ErrBadCast signals that a dynamic downcast (array/object) failed.
	ErrBadCast = errors.New("json: bad cast")
	// ErrNullValue signals that a caller supplied a nil *Value where one was
	// required.
	ErrNullValue = errors.New("json: null value")
	// ErrIndexOutOfBounds signals an array index outside the valid range:
	// negative for any array operation, or past the end for GetAt/RemoveAt.
	ErrIndexOutOfBounds = errors.New("json: index out of bounds")
	// ErrUniqueConstraintViolation signals an attempt to Add a member name
	// that already exists in an object.
	ErrUniqueConstraintViolation = errors.New("json: duplicate member name")
	// ErrPermViolation signals an attempt to overwrite a final member or to
	// mutate a locked container.
	ErrPermViolation = errors.New("json: permission violation")
	// ErrNoSuchName signals a lookup for a member name that does not exist.
	ErrNoSuchName = errors.New("json: no such member")
)

// Fault wraps one of the sentinel errors above with the byte offset in the
// source text at which it was detected, giving callers a location suitable
// for logging without making it part of any control-flow decision.
type Fault struct {
	Err    error
	Offset int
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v (at byte %d)", f.Err, f.Offset)
}

func (f *Fault) Unwrap() error { return f.Err }

func fault(offset int, err error, format string, args ...any) error {
	return &Fault{
		Err:    fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)),
		Offset: offset,
	}
}

// valueErr wraps a sentinel with context for a value-model operation that
// has no associated source-text offset (as opposed to a parse-time Fault).
func valueErr(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
