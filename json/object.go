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

import "sort"

// member pairs a value with the "final" bit: a final member cannot be
// overwritten or removed once added.
type member struct {
	value *Value
	final bool
}

// object is the backing store for an object-kind Value. Member order is
// insertion-irrelevant: ToJSON and Names both produce the mapping's natural
// (sorted-by-key) order, so iteration is stable across clones regardless of
// the order members were added in.
type object struct {
	members map[string]*member
	locked  bool
}

func newObjectData() *object {
	return &object{members: make(map[string]*member)}
}

func (o *object) clone() *object {
	c := newObjectData()
	for k, m := range o.members {
		c.members[k] = &member{value: m.value.Clone(), final: m.final}
	}
	return c
}

func (o *object) lock() {
	if o.locked {
		return
	}
	o.locked = true
	for _, m := range o.members {
		m.value.Lock()
	}
}

func (o *object) invalidate() {
	for k, m := range o.members {
		m.value.Invalidate()
		delete(o.members, k)
	}
}

// sortedNames returns the object's member names sorted lexically.
func (o *object) sortedNames() []string {
	names := make([]string, 0, len(o.members))
	for k := range o.members {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (v *Value) requireObject() error {
	if v.kind != KindObject {
		return valueErr(ErrBadCast, "not an object")
	}
	return nil
}

// Add inserts a new, non-final member. It fails with ErrBadCast if the
// Value is not an object, ErrPermViolation if the object is locked,
// ErrNullValue if val is nil, or ErrUniqueConstraintViolation if name
// already exists.
func (v *Value) Add(name string, val *Value) error {
	return v.add(name, val, false)
}

// AddFinal inserts a new member that can never subsequently be overwritten
// or removed. Failure modes are identical to Add.
func (v *Value) AddFinal(name string, val *Value) error {
	return v.add(name, val, true)
}

func (v *Value) add(name string, val *Value, final bool) error {
	if err := v.requireObject(); err != nil {
		return err
	}
	if v.locked {
		return valueErr(ErrPermViolation, "object is locked")
	}
	if val == nil {
		return valueErr(ErrNullValue, "cannot add a nil value for %q", name)
	}
	if _, exists := v.obj.members[name]; exists {
		return valueErr(ErrUniqueConstraintViolation, "member %q already exists", name)
	}
	v.obj.members[name] = &member{value: val, final: final}
	return nil
}

// Set assigns val to an existing or new member named name. It fails with
// ErrBadCast if the Value is not an object, ErrPermViolation if the object
// is locked or the named member is final, or ErrNullValue if val is nil.
func (v *Value) Set(name string, val *Value) error {
	return v.set(name, val, false)
}

// SetFinal behaves like Set but also marks the member final, so that it can
// no longer be overwritten or removed afterward.
func (v *Value) SetFinal(name string, val *Value) error {
	return v.set(name, val, true)
}

func (v *Value) set(name string, val *Value, final bool) error {
	if err := v.requireObject(); err != nil {
		return err
	}
	if v.locked {
		return valueErr(ErrPermViolation, "object is locked")
	}
	if val == nil {
		return valueErr(ErrNullValue, "cannot set a nil value for %q", name)
	}
	if m, exists := v.obj.members[name]; exists && m.final {
		return valueErr(ErrPermViolation, "member %q is final", name)
	}
	v.obj.members[name] = &member{value: val, final: final}
	return nil
}

// Get returns the member named name. It fails with ErrBadCast if the Value
// is not an object, or ErrNoSuchName if no such member exists.
func (v *Value) Get(name string) (*Value, error) {
	if err := v.requireObject(); err != nil {
		return nil, err
	}
	m, exists := v.obj.members[name]
	if !exists {
		return nil, valueErr(ErrNoSuchName, "no member %q", name)
	}
	return m.value, nil
}

// Remove deletes the member named name. It is a no-op if the member does
// not exist. It fails with ErrBadCast if the Value is not an object,
// ErrPermViolation if the object is locked or the member is final.
func (v *Value) Remove(name string) error {
	if err := v.requireObject(); err != nil {
		return err
	}
	m, exists := v.obj.members[name]
	if !exists {
		return nil
	}
	if v.locked {
		return valueErr(ErrPermViolation, "object is locked")
	}
	if m.final {
		return valueErr(ErrPermViolation, "member %q is final", name)
	}
	delete(v.obj.members, name)
	return nil
}

// Names returns the object's member names in sorted order. It returns nil
// for any non-object Value.
func (v *Value) Names() []string {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.sortedNames()
}

// ExistsName reports whether name is a member of an object Value.
func (v *Value) ExistsName(name string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.obj.members[name]
	return ok
}

// IsFinal reports whether name is a final member of an object Value. It
// returns false if the Value is not an object or the member does not exist.
func (v *Value) IsFinal(name string) bool {
	if v.kind != KindObject {
		return false
	}
	m, ok := v.obj.members[name]
	return ok && m.final
}
