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

package jwa_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/joseid/jose/jwa"
)

var msg = []byte("payload")

func TestHMACFamily(t *testing.T) {
	secret := []byte("super-secret-key-material-32bytes")

	for _, name := range []string{"HS256", "HS384", "HS512"} {
		t.Run(name, func(t *testing.T) {
			alg, err := jwa.Default.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, jwa.KeyTypeOctet, alg.KeyType())

			sig, err := alg.Sign(secret, msg)
			require.NoError(t, err)
			assert.True(t, alg.Verify(secret, msg, sig))
			assert.False(t, alg.Verify([]byte("wrong-key"), msg, sig))
		})
	}
}

func TestHMACRejectsWrongKeyType(t *testing.T) {
	alg, err := jwa.Default.Lookup("HS256")
	require.NoError(t, err)

	_, err = alg.Sign("not-bytes", msg)
	assert.ErrorIs(t, err, jwa.ErrKeyMismatch)
	assert.False(t, alg.Verify("not-bytes", msg, []byte{1, 2, 3}))
}

func TestRSAFamily(t *testing.T) {
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	for _, name := range []string{"RS256", "RS384", "RS512"} {
		t.Run(name, func(t *testing.T) {
			alg, err := jwa.Default.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, jwa.KeyTypeRSA, alg.KeyType())

			sig, err := alg.Sign(k, msg)
			require.NoError(t, err)
			assert.True(t, alg.Verify(&k.PublicKey, msg, sig))
		})
	}
}

func TestRSARejectsWrongKey(t *testing.T) {
	k1, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	k2, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	alg, err := jwa.Default.Lookup("RS256")
	require.NoError(t, err)

	sig, err := alg.Sign(k1, msg)
	require.NoError(t, err)
	assert.False(t, alg.Verify(&k2.PublicKey, msg, sig))
}

func TestLookupUnknownAlgorithm(t *testing.T) {
	_, err := jwa.Default.Lookup("ES256")
	assert.ErrorIs(t, err, jwa.ErrUnknownAlgorithm)
}

func TestNoneDisabledByDefault(t *testing.T) {
	alg, err := jwa.Default.Lookup("none")
	require.NoError(t, err)
	assert.Equal(t, jwa.KeyTypeNone, alg.KeyType())

	assert.False(t, alg.Verify(nil, msg, []byte{}))
	_, err = alg.Sign(nil, msg)
	assert.ErrorIs(t, err, jwa.ErrNoneDisabled)
}

func TestNoneCanBeExplicitlyEnabled(t *testing.T) {
	alg, err := jwa.Default.Lookup("none")
	require.NoError(t, err)

	jwa.Default.AllowNoneVerification(true)
	defer jwa.Default.AllowNoneVerification(false)

	assert.True(t, alg.Verify(nil, msg, []byte{}))
	assert.False(t, alg.Verify(nil, msg, []byte{1}))

	sig, err := alg.Sign(nil, msg)
	require.NoError(t, err)
	assert.Empty(t, sig)
}

func TestAccepts(t *testing.T) {
	assert.True(t, jwa.Default.Accepts("oct", "HS256"))
	assert.False(t, jwa.Default.Accepts("RSA", "HS256"))
	assert.True(t, jwa.Default.Accepts("RSA", "RS256"))
	assert.False(t, jwa.Default.Accepts("oct", "nonexistent"))
}
