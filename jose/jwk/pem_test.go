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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/joseid/jose/jwk"
)

func encodePEM(label string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der})
}

func TestParsePEMRSAPrivateKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(priv))

	k, err := jwk.ParsePEM(block, nil, jwk.UseSignature, "RS256", "rsa1")
	require.NoError(t, err)
	assert.Equal(t, jwk.KeyTypeRSA, k.Kty())

	mat, err := k.Material()
	require.NoError(t, err)
	decoded, ok := mat.(*rsa.PrivateKey)
	require.True(t, ok)
	assert.Equal(t, priv.N, decoded.N)
}

func TestParsePEMRSAPublicKeyPKIX(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	block := encodePEM("PUBLIC KEY", der)

	k, err := jwk.ParsePEM(block, nil, jwk.UseSignature, "RS256", "rsa1")
	require.NoError(t, err)
	mat, err := k.Material()
	require.NoError(t, err)
	pub, ok := mat.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.PublicKey.N, pub.N)
}

func TestParsePEMECPrivateKey(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)
	block := encodePEM("EC PRIVATE KEY", der)

	k, err := jwk.ParsePEM(block, nil, jwk.UseSignature, "", "ec1")
	require.NoError(t, err)
	assert.Equal(t, jwk.KeyTypeEC, k.Kty())
}

func TestParsePEMSkipsUnrecognizedLabel(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ignored := encodePEM("CERTIFICATE", []byte("not a real certificate"))
	real := encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(priv))

	combined := append(append([]byte{}, ignored...), real...)
	k, err := jwk.ParsePEM(combined, nil, "", "RS256", "rsa1")
	require.NoError(t, err)
	assert.Equal(t, jwk.KeyTypeRSA, k.Kty())
}

func TestParsePEMFailsWithNoRecognizedBlock(t *testing.T) {
	_, err := jwk.ParsePEM(encodePEM("CERTIFICATE", []byte("x")), nil, "", "", "k1")
	assert.ErrorIs(t, err, jwk.ErrNoKeyBlock)
}
