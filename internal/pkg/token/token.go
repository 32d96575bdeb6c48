package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ActionUnsubscribe marks a token as an unsubscribe-only credential.
const ActionUnsubscribe = "unsubscribe"

// Claims is the signed token payload handed to subscribers in email links.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Lang    string `json:"lang,omitempty"`
	Action  string `json:"action,omitempty"`
	jwtlib.RegisteredClaims
}

// Expired reports whether the exp claim has passed. Verify does not check
// freshness; every caller must.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.Unix() > c.ExpiresAt.Unix()
}

// Codec signs and verifies compact HS256 tokens with a shared secret.
// Verify proves authenticity only, not freshness.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign creates a signed token for the given claims.
func (cd *Codec) Sign(claims *Claims) (string, error) {
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return tok.SignedString(cd.secret)
}

// Verify checks the token signature and returns the claims. Expiry is
// deliberately not validated here; callers compare Claims.Expired against
// current time.
func (cd *Codec) Verify(tokenStr string) (*Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithoutClaimsValidation())
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cd.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
