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

package jwk_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/joseid/jose/jwk"
)

func TestParseOctetKey(t *testing.T) {
	text := `{"kty":"oct","kid":"k1","alg":"HS256","k":"c2VjcmV0LWJ5dGVz"}`
	k, err := jwk.Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, jwk.KeyTypeOctet, k.Kty())
	assert.Equal(t, "k1", k.Kid())
	assert.Equal(t, "HS256", k.Alg())

	mat, err := k.Material()
	require.NoError(t, err)
	secret, ok := mat.([]byte)
	require.True(t, ok)
	assert.Equal(t, "secret-bytes", string(secret))
}

func TestParseRejectsMissingKty(t *testing.T) {
	_, err := jwk.Parse([]byte(`{"kid":"k1","k":"AA"}`))
	assert.ErrorIs(t, err, jwk.ErrJWK)
}

func TestParseRejectsMissingKid(t *testing.T) {
	_, err := jwk.Parse([]byte(`{"kty":"oct","k":"AA"}`))
	assert.ErrorIs(t, err, jwk.ErrJWK)
}

func TestParseRejectsIncompatibleAlgForKeyType(t *testing.T) {
	_, err := jwk.Parse([]byte(`{"kty":"oct","kid":"k1","alg":"RS256","k":"AA"}`))
	assert.ErrorIs(t, err, jwk.ErrJWK)
}

func TestParseRejectsUnknownKeyOps(t *testing.T) {
	_, err := jwk.Parse([]byte(`{"kty":"oct","kid":"k1","key_ops":["fly"],"k":"AA"}`))
	assert.ErrorIs(t, err, jwk.ErrJWK)
}

func TestParseRejectsMissingTypeSpecificMember(t *testing.T) {
	_, err := jwk.Parse([]byte(`{"kty":"RSA","kid":"k1"}`))
	assert.ErrorIs(t, err, jwk.ErrJWK)
}

func TestNewRSAKeyPairRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privKey, err := jwk.NewRSAPrivate("rsa1", "RS256", priv)
	require.NoError(t, err)

	mat, err := privKey.Material()
	require.NoError(t, err)
	decoded, ok := mat.(*rsa.PrivateKey)
	require.True(t, ok)
	assert.Equal(t, priv.N, decoded.N)

	pubKey, err := jwk.NewRSAPublic("rsa1", "RS256", &priv.PublicKey)
	require.NoError(t, err)
	pubMat, err := pubKey.Material()
	require.NoError(t, err)
	pub, ok := pubMat.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.PublicKey.N, pub.N)
	assert.Equal(t, priv.PublicKey.E, pub.E)
}

func TestIsSigningKeyDefaultsToEligible(t *testing.T) {
	k, err := jwk.NewOctet("k1", "HS256", []byte("secret"))
	require.NoError(t, err)
	assert.True(t, k.IsSigningKey())
	assert.True(t, k.IsVerificationKey())
}

func TestIsSigningKeyRespectsUse(t *testing.T) {
	text := `{"kty":"oct","kid":"k1","alg":"HS256","use":"enc","k":"AA"}`
	k, err := jwk.Parse([]byte(text))
	require.NoError(t, err)
	assert.False(t, k.IsSigningKey())
}

func TestKeyCloneIsIndependent(t *testing.T) {
	k, err := jwk.NewOctet("k1", "HS256", []byte("secret"))
	require.NoError(t, err)
	clone := k.Clone()
	clone.Invalidate()

	mat, err := k.Material()
	require.NoError(t, err)
	secret, ok := mat.([]byte)
	require.True(t, ok)
	assert.Equal(t, "secret", string(secret))
}
