package jwtPkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, exp, err := Sign("s3cret", "ops@ecovision", RoleOperator, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := Parse(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops@ecovision", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
}

func TestParse_Rejects(t *testing.T) {
	token, _, err := Sign("s3cret", "ops", RoleOperator, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other")
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expired, _, err := Sign("s3cret", "ops", RoleOperator, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, "s3cret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = Parse(token, "")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, _, err = Sign("", "ops", RoleOperator, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}
