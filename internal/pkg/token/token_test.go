package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Ceanlio/kuzamo/internal/pkg/token"
)

func newClaims(email string, exp time.Time) *token.Claims {
	return &token.Claims{
		Email: email,
		Name:  "Ali Veli",
		Lang:  "tr",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	cd := token.NewCodec("secret-a")
	exp := time.Now().Add(time.Hour)

	signed, err := cd.Sign(newClaims("ali@example.com", exp))
	require.NoError(t, err)

	claims, err := cd.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "ali@example.com", claims.Email)
	require.Equal(t, "Ali Veli", claims.Name)
	require.Equal(t, "tr", claims.Lang)
	require.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	require.False(t, claims.Expired(time.Now()))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	cd := token.NewCodec("secret-a")
	signed, err := cd.Sign(newClaims("ali@example.com", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	// Flip one character.
	tampered := []byte(signed)
	i := len(tampered) / 2
	if tampered[i] == 'a' {
		tampered[i] = 'b'
	} else {
		tampered[i] = 'a'
	}
	_, err = cd.Verify(string(tampered))
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := token.NewCodec("secret-a").Sign(newClaims("ali@example.com", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	_, err = token.NewCodec("secret-b").Verify(signed)
	require.Error(t, err)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	cd := token.NewCodec("secret-a")
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		_, err := cd.Verify(tok)
		require.Error(t, err, "token %q", tok)
	}
}

// Verify proves authenticity only; an expired token still verifies and the
// freshness check is the caller's job.
func TestExpiredTokenVerifiesButReportsExpired(t *testing.T) {
	cd := token.NewCodec("secret-a")
	signed, err := cd.Sign(newClaims("ali@example.com", time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	claims, err := cd.Verify(signed)
	require.NoError(t, err)
	require.True(t, claims.Expired(time.Now()))
}

func TestActionClaim(t *testing.T) {
	cd := token.NewCodec("secret-a")
	signed, err := cd.Sign(&token.Claims{
		Email:  "ali@example.com",
		Action: token.ActionUnsubscribe,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	claims, err := cd.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, token.ActionUnsubscribe, claims.Action)
}
