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

// Limits bounds the resources a single Parse call is allowed to consume.
// Every JWT and JWK that reaches this library arrives from an untrusted
// party; without a bound, a hostile numeral, a deeply nested array, or a
// gigantic string literal turns parsing into a denial-of-service vector.
// Every field must be positive for the limits to have any effect; a zero
// value disables that particular check.
type Limits struct {
	// MaxJSONBytes caps the total length of the input text.
	MaxJSONBytes int
	// MaxRecursionDepth caps how deeply arrays and objects may nest.
	MaxRecursionDepth int
	// MaxNumeralLength caps the number of characters in a single numeral
	// literal, before any conversion is attempted.
	MaxNumeralLength int
	// MaxStringBytes caps the decoded byte length of a single string
	// literal.
	MaxStringBytes int
	// MaxArrayElements caps the number of elements in a single array.
	MaxArrayElements int
	// MaxObjectMembers caps the number of members in a single object.
	MaxObjectMembers int
}

// DefaultLimits returns a conservative set of Limits suitable for parsing
// compact JWTs, JWKs, and JWKSets. Values are generous enough for any
// realistic token while still ruling out pathological input.
func DefaultLimits() Limits {
	return Limits{
		MaxJSONBytes:      1 << 20, // 1 MiB
		MaxRecursionDepth:  64,
		MaxNumeralLength:   128,
		MaxStringBytes:     1 << 18, // 256 KiB
		MaxArrayElements:   4096,
		MaxObjectMembers:   1024,
	}
}

func (l Limits) checkDepth(depth int) error {
	if l.MaxRecursionDepth > 0 && depth > l.MaxRecursionDepth {
		return ErrLimitViolation
	}
	return nil
}

func (l Limits) checkNumeralLength(n int) error {
	if l.MaxNumeralLength > 0 && n > l.MaxNumeralLength {
		return ErrLimitViolation
	}
	return nil
}

func (l Limits) checkStringBytes(n int) error {
	if l.MaxStringBytes > 0 && n > l.MaxStringBytes {
		return ErrLimitViolation
	}
	return nil
}

func (l Limits) checkArrayElements(n int) error {
	if l.MaxArrayElements > 0 && n > l.MaxArrayElements {
		return ErrLimitViolation
	}
	return nil
}

func (l Limits) checkObjectMembers(n int) error {
	if l.MaxObjectMembers > 0 && n > l.MaxObjectMembers {
		return ErrLimitViolation
	}
	return nil
}
