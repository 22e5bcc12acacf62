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
	"strings"
	"testing"

	"github.com/deep-rent/joseid/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONSortsMemberNames(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.Add("zeta", json.NewInteger(1)))
	require.NoError(t, obj.Add("alpha", json.NewInteger(2)))

	assert.Equal(t, `{"alpha":2,"zeta":1}`, obj.ToJSON())
}

func TestToJSONIsWhitespaceFree(t *testing.T) {
	obj := json.NewObject()
	require.NoError(t, obj.Add("a", json.NewString("b")))
	assert.False(t, strings.ContainsAny(obj.ToJSON(), " \n\t"))
}

func TestToJSONEscapesControlCharacters(t *testing.T) {
	s := json.NewString("line\nbreak\ttab")
	assert.Equal(t, `"line\nbreak\ttab"`, s.ToJSON())
}

func TestReadableJSONIndentsNestedContainers(t *testing.T) {
	obj := json.NewObject()
	inner := json.NewObject()
	require.NoError(t, inner.Add("x", json.NewInteger(1)))
	require.NoError(t, obj.Add("nested", inner))

	out := obj.ReadableJSON(2)
	assert.Contains(t, out, "\n  \"nested\"")
	assert.Contains(t, out, "\n    \"x\"")
}

func TestNumberEncodingPreservesLexeme(t *testing.T) {
	n := json.NewNumber("1.000")
	assert.Equal(t, "1.000", n.ToJSON())
}
