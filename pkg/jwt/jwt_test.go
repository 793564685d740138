package jwt_test

import (
	"testing"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "ana@example.com", "inventario", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, "inventario", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "ana@example.com", "inventario", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "inventario", token)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", "user-1", "ana@example.com", "inventario", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "inventario", token)
	assert.Error(t, err)
}

func TestParse_EmisorDistinto(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "ana@example.com", "otro", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, "inventario", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "ana@example.com", "inventario", 60)
	assert.Error(t, err)
}
