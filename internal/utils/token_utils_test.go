package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT(t *testing.T) {
	signed, err := GenerateJWT("owner-1", "secret", time.Hour, "fiado")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithIssuer("fiado"))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, jwt.SigningMethodHS256.Alg(), token.Method.Alg())
}
