package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreamTokenRoundTrip(t *testing.T) {
	token, err := GenerateStreamToken(7, 12, "HD", time.Minute, "s3cret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := VerifyStreamToken(token, "s3cret")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(12), claims.MovieID)
	assert.Equal(t, "HD", claims.Quality)
}

func TestStreamTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateStreamToken(7, 12, "SD", time.Minute, "s3cret")
	assert.NoError(t, err)

	_, err = VerifyStreamToken(token, "other")
	assert.Error(t, err)
}

func TestStreamTokenRejectsExpired(t *testing.T) {
	token, err := GenerateStreamToken(7, 12, "SD", -time.Minute, "s3cret")
	assert.NoError(t, err)

	_, err = VerifyStreamToken(token, "s3cret")
	assert.Error(t, err)
}

func TestStreamTokenRequiresSecret(t *testing.T) {
	_, err := GenerateStreamToken(7, 12, "SD", time.Minute, "")
	assert.Error(t, err)

	_, err = VerifyStreamToken("a.b", "")
	assert.Error(t, err)
}

func TestStreamTokenRejectsTamperedPayload(t *testing.T) {
	token, err := GenerateStreamToken(7, 12, "SD", time.Minute, "s3cret")
	assert.NoError(t, err)

	tampered := "x" + token
	_, err = VerifyStreamToken(tampered, "s3cret")
	assert.Error(t, err)
}
