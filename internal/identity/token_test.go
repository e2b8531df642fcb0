package identity

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertigo/travel-planner/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	secret := []byte("test-secret")
	issuer := NewJWTIssuer(secret, time.Hour)
	verifier := NewJWTVerifier(secret)

	token, expiresAt, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	issuer := NewJWTIssuer(secret, -time.Minute)
	verifier := NewJWTVerifier(secret)

	token, _, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTIssuer([]byte("secret-a"), time.Hour)
	verifier := NewJWTVerifier([]byte("secret-b"))

	token, _, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret"))

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := verifier.Verify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	// A token signed with "none" must not pass HMAC verification
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(42, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	verifier := NewJWTVerifier([]byte("test-secret"))
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsNonNumericSubject(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tok.SignedString(secret)
	require.NoError(t, err)

	verifier := NewJWTVerifier(secret)
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
