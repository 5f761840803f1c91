package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTer_IssueParse(t *testing.T) {
	j, err := NewJWTer("secret", "portfolio", time.Hour)
	require.NoError(t, err)

	tok, err := j.Issue("u-1", "admin")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UID)
	assert.Equal(t, "admin", c.Role)
}

func TestJWTer_Rejects(t *testing.T) {
	j, _ := NewJWTer("secret", "portfolio", time.Hour)
	other, _ := NewJWTer("other", "portfolio", time.Hour)
	wrongIss, _ := NewJWTer("secret", "someone-else", time.Hour)

	forged, _ := other.Issue("u-1", "admin")
	_, err := j.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	iss, _ := wrongIss.Issue("u-1", "user")
	_, err = j.Parse(iss)
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := time.Now().Add(-3 * time.Hour)
	old := &JWTer{Secret: []byte("secret"), Issuer: "portfolio", TTL: time.Hour, now: func() time.Time { return past }}
	expired, _ := old.Issue("u-1", "user")
	_, err = j.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTer_EmptySecret(t *testing.T) {
	_, err := NewJWTer("", "x", time.Minute)
	assert.Error(t, err)
}
