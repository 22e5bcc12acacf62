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

// Package secure provides a best-effort "zero before free" primitive for
// credential bytes (signatures, key material, decoded payloads).
//
// A plain loop writing zeros into a slice that is never read again is a
// classic target for dead-store elimination: a sufficiently aggressive
// compiler is permitted to observe that the write has no further effect and
// drop it. Erase defeats this by routing the write through runtime.KeepAlive,
// which forces the compiler to treat the slice as escaping and live until
// after the zeroing completes.
package secure

import "runtime"

// Erase overwrites every byte of b with zero. It is safe to call on a nil or
// empty slice.
func Erase(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// EraseString clears the pointed-to string variable. Go strings are
// immutable and their backing array cannot be overwritten in place, so this
// cannot zero bytes some other alias still references; it only guarantees
// that the variable itself no longer holds the secret. Credential bytes that
// must honor the erase contract in full should be kept as []byte, not
// string, for their entire lifetime.
func EraseString(s *string) {
	if s == nil {
		return
	}
	*s = ""
}
