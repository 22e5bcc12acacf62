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

package base64url_test

import (
	"strings"
	"testing"

	"github.com/deep-rent/joseid/base64url"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeIsUnpadded(t *testing.T) {
	s := base64url.Encode([]byte("any carnal pleasure"))
	assert.False(t, strings.Contains(s, "="))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := []byte{0x00, 0x01, 0xff, 0xfe, 'h', 'i'}
	s := base64url.Encode(want)

	p, err := base64url.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, want, p.Bytes())
	assert.Equal(t, len(want), p.Len())
}

func TestDecodeRejectsPaddedInput(t *testing.T) {
	_, err := base64url.Decode("YQ==")
	assert.ErrorIs(t, err, base64url.ErrMalformed)
}

func TestDecodeRejectsStandardAlphabet(t *testing.T) {
	// '+' and '/' belong to the standard alphabet, not base64url's '-'/'_'.
	_, err := base64url.Decode("a+b/c")
	assert.ErrorIs(t, err, base64url.ErrMalformed)
}

func TestPayloadEraseClearsBytes(t *testing.T) {
	p, err := base64url.Decode(base64url.Encode([]byte("secret-key-material")))
	require.NoError(t, err)
	p.Erase()
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Bytes())
}
