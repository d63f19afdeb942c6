package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWT_SignVerifyRoundTrip(t *testing.T) {
	req := require.New(t)
	j := New("test-secret")

	tok, err := j.Sign("u-42", "alice", time.Minute)
	req.NoError(err)

	user, err := j.Verify(tok)
	req.NoError(err)
	req.EqualValues("u-42", user.ID)
	req.Equal("alice", user.DisplayName)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	req := require.New(t)
	tok, err := New("secret-a").Sign("u-42", "alice", time.Minute)
	req.NoError(err)

	_, err = New("secret-b").Verify(tok)
	req.Error(err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	req := require.New(t)
	j := New("test-secret")
	tok, err := j.Sign("u-42", "alice", -time.Minute)
	req.NoError(err)

	_, err = j.Verify(tok)
	req.Error(err)
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", BearerToken("Bearer abc"))
	req.Empty(BearerToken("abc"))
	req.Empty(BearerToken(""))
	req.Empty(BearerToken("Basic abc"))
}
