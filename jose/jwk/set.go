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
	"fmt"

	"github.com/deep-rent/joseid/json"
)

// setDepthLimit bounds recursion when parsing a JWKS; two levels deeper
// than a single key, to admit the enclosing object and its "keys" array.
const setDepthLimit = 22

func setLimits() json.Limits {
	l := json.DefaultLimits()
	l.MaxRecursionDepth = setDepthLimit
	return l
}

// Set is an in-memory collection of Keys indexed by kid. It owns the keys
// it holds; Clone produces an independent deep copy and Invalidate
// invalidates every member key.
type Set struct {
	keys  []*Key
	index map[string]int // kid -> index into keys
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// IsEmpty reports whether the set holds no keys.
func (s *Set) IsEmpty() bool { return len(s.keys) == 0 }

// Count returns the number of keys in the set.
func (s *Set) Count() int { return len(s.keys) }

// Contains reports whether kid names a key in the set.
func (s *Set) Contains(kid string) bool {
	_, ok := s.index[kid]
	return ok
}

// KeyIDs returns the set's key ids. Order matches insertion order.
func (s *Set) KeyIDs() []string {
	ids := make([]string, len(s.keys))
	for i, k := range s.keys {
		ids[i] = k.Kid()
	}
	return ids
}

// AddKey inserts key into the set. It fails with ErrDuplicateKeyID if a
// key with the same kid is already present.
func (s *Set) AddKey(key *Key) error {
	kid := key.Kid()
	if _, exists := s.index[kid]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKeyID, kid)
	}
	s.index[kid] = len(s.keys)
	s.keys = append(s.keys, key)
	return nil
}

// GetKey returns the key named kid, or ErrKeyNotFound.
func (s *Set) GetKey(kid string) (*Key, error) {
	i, exists := s.index[kid]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
	}
	return s.keys[i], nil
}

// RemoveKey deletes the key named kid. It is a no-op if absent.
func (s *Set) RemoveKey(kid string) {
	i, exists := s.index[kid]
	if !exists {
		return
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	delete(s.index, kid)
	for id, idx := range s.index {
		if idx > i {
			s.index[id] = idx - 1
		}
	}
}

// Keys returns the set's keys. The returned slice shares storage with the
// Set and must not be mutated; use Clone for an independent copy.
func (s *Set) Keys() []*Key { return s.keys }

// Clone returns an independent deep copy of the set; the side-index is
// rebuilt from the cloned keys.
func (s *Set) Clone() *Set {
	c := &Set{
		keys:  make([]*Key, len(s.keys)),
		index: make(map[string]int, len(s.keys)),
	}
	for i, k := range s.keys {
		c.keys[i] = k.Clone()
		c.index[c.keys[i].Kid()] = i
	}
	return c
}

// Invalidate calls Key.Invalidate on every key in the set and empties it.
// After Invalidate the Set must not be used again.
func (s *Set) Invalidate() {
	for _, k := range s.keys {
		k.Invalidate()
	}
	s.keys = nil
	s.index = nil
}

// ParseSet parses and validates a JWK Set from text, enforcing kid
// uniqueness across the "keys" array.
func ParseSet(text []byte) (*Set, error) {
	v, err := json.ParseObject(setLimits(), text)
	if err != nil {
		return nil, invalid("%v", err)
	}
	keysVal, err := v.Get("keys")
	if err != nil {
		return nil, invalid(`missing required member "keys"`)
	}
	if !keysVal.IsArray() {
		return nil, invalid(`member "keys" must be an array`)
	}
	set := NewSet()
	for i, elem := range keysVal.Elements() {
		if !elem.IsObject() {
			return nil, invalid("key at index %d is not a JSON object", i)
		}
		k := &Key{v: elem}
		if err := validate(k); err != nil {
			return nil, fmt.Errorf("key at index %d: %w", i, err)
		}
		if err := set.AddKey(k); err != nil {
			return nil, fmt.Errorf("key at index %d: %w", i, err)
		}
	}
	return set, nil
}

// ToJSON serializes the set back to its canonical JWK Set JSON form.
func (s *Set) ToJSON() string {
	v := json.NewObject()
	arr := json.NewArray()
	for _, k := range s.keys {
		_ = arr.Append(k.Value())
	}
	_ = v.Add("keys", arr)
	return v.ToJSON()
}
