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

package json_test

import (
	"testing"

	"github.com/deep-rent/joseid/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKindPredicates(t *testing.T) {
	assert.True(t, json.NewNull().IsNull())
	assert.True(t, json.NewBool(true).IsBool())
	assert.True(t, json.NewInteger(1).IsInteger())
	assert.True(t, json.NewInteger(1).IsNumber())
	assert.True(t, json.NewNumber("1.5").IsNumber())
	assert.True(t, json.NewString("x").IsString())
	assert.True(t, json.NewArray().IsArray())
	assert.True(t, json.NewObject().IsObject())
}

func TestValueTypedGettersRejectWrongKind(t *testing.T) {
	_, err := json.NewString("x").Bool()
	assert.ErrorIs(t, err, json.ErrIncompatibleType)

	_, err = json.NewBool(true).Integer()
	assert.ErrorIs(t, err, json.ErrIncompatibleType)

	_, err = json.NewBool(true).Text()
	assert.ErrorIs(t, err, json.ErrIncompatibleType)
}

func TestValueNumberPreservesLexeme(t *testing.T) {
	n := json.NewNumber("1.000000000000000000001")
	s, err := n.Number()
	require.NoError(t, err)
	assert.Equal(t, "1.000000000000000000001", s)
}

func TestValueCloneIsIndependentAndUnlocked(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.Add("a", json.NewInteger(1)))
	obj.Lock()
	require.True(t, obj.Locked())

	clone := obj.Clone()
	assert.False(t, clone.Locked())
	require.NoError(t, clone.Set("a", json.NewInteger(2)))

	original, err := obj.Get("a")
	require.NoError(t, err)
	v, err := original.Integer()
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestValueLockPreventsMutation(t *testing.T) {
	arr := json.NewArray()
	require.NoError(t, arr.Append(json.NewInteger(1)))
	arr.Lock()

	err := arr.Append(json.NewInteger(2))
	assert.ErrorIs(t, err, json.ErrPermViolation)
}

func TestValueLockIsRecursive(t *testing.T) {
	child := json.NewArray()
	require.NoError(t, child.Append(json.NewInteger(1)))
	parent := json.NewObject()
	require.NoError(t, parent.Add("child", child))
	parent.Lock()

	assert.True(t, child.Locked())
	err := child.Append(json.NewInteger(2))
	assert.ErrorIs(t, err, json.ErrPermViolation)
}

func TestValueInvalidateClearsPayload(t *testing.T) {
	v := json.NewString("secret")
	v.Invalidate()
	s, err := v.Text()
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestFinalMemberCannotBeOverwrittenOrRemoved(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.AddFinal("iss", json.NewString("issuer")))

	err := obj.Set("iss", json.NewString("other"))
	assert.ErrorIs(t, err, json.ErrPermViolation)

	err = obj.Remove("iss")
	assert.ErrorIs(t, err, json.ErrPermViolation)

	assert.True(t, obj.IsFinal("iss"))
}

func TestObjectAddRejectsDuplicateName(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.Add("a", json.NewInteger(1)))
	err := obj.Add("a", json.NewInteger(2))
	assert.ErrorIs(t, err, json.ErrUniqueConstraintViolation)
}

func TestObjectGetMissingNameFails(t *testing.T) {
	obj := json.NewObject()
	_, err := obj.Get("missing")
	assert.ErrorIs(t, err, json.ErrNoSuchName)
}

func TestArraySetExtendsWithNulls(t *testing.T) {
	arr := json.NewArray()
	require.NoError(t, arr.SetAt(2, json.NewInteger(7)))
	assert.Equal(t, 3, arr.Count())

	gap, err := arr.GetAt(0)
	require.NoError(t, err)
	assert.True(t, gap.IsNull())

	last, err := arr.GetAt(2)
	require.NoError(t, err)
	v, err := last.Integer()
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestArrayRemoveTruncatesTrailingNulls(t *testing.T) {
	arr := json.NewArray()
	require.NoError(t, arr.Append(json.NewInteger(1)))
	require.NoError(t, arr.Append(json.NewInteger(2)))
	require.NoError(t, arr.Append(json.NewInteger(3)))

	require.NoError(t, arr.RemoveAt(2))
	assert.Equal(t, 2, arr.Count())

	require.NoError(t, arr.RemoveAt(1))
	assert.Equal(t, 1, arr.Count())
}

func TestObjectNamesAreSortedRegardlessOfInsertionOrder(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.Add("zeta", json.NewInteger(1)))
	require.NoError(t, obj.Add("alpha", json.NewInteger(2)))
	require.NoError(t, obj.Add("mu", json.NewInteger(3)))

	assert.Equal(t, []string{"alpha", "mu", "zeta"}, obj.Names())
}
