package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService("")
	assert.Error(t, err)
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	token, err := svc.Issue(42, "ann@test.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ann@test.com", claims.Email)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, TokenValidity-time.Minute)
	assert.LessOrEqual(t, remaining, TokenValidity)
}

func TestJWTService_Verify_TamperedSignature(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	token, err := svc.Issue(42, "ann@test.com")
	require.NoError(t, err)

	tampered := tamperSignature(token)
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_Verify_TamperedPayload(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	token, err := svc.Issue(42, "ann@test.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := replaceChar(parts[1], len(parts[1])/2)
	tampered := parts[0] + "." + payload + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestJWTService_Verify_TrailingPaddingBits(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	// 256 signature bits fill 43 base64url characters, so the last
	// character carries two bits the decoder never reads. Find a token
	// whose signature ends in 'A' and check that the 'B' spelling, which
	// decodes to the identical signature, verifies too.
	var token string
	for i := 1; i <= 512 && token == ""; i++ {
		candidate, err := svc.Issue(uint(i), "ann@test.com")
		require.NoError(t, err)
		if strings.HasSuffix(candidate, "A") {
			token = candidate
		}
	}
	if token == "" {
		t.Skip("no signature ending in 'A' produced")
	}

	variant := token[:len(token)-1] + "B"
	require.NotEqual(t, token, variant)
	claims, err := svc.Verify(variant)
	require.NoError(t, err)
	assert.Equal(t, "ann@test.com", claims.Email)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	claims := &Claims{
		UserID: 42,
		Email:  "ann@test.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_Verify_Malformed(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestJWTService_Verify_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-one")
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two")
	require.NoError(t, err)

	token, err := issuer.Issue(42, "ann@test.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// tamperSignature flips a character in the middle of the signature
// segment. Unlike the trailing character, every bit there is part of the
// decoded signature, so verification must fail.
func tamperSignature(token string) string {
	dot := strings.LastIndex(token, ".")
	sig := token[dot+1:]
	return token[:dot+1] + replaceChar(sig, len(sig)/2)
}

func replaceChar(s string, i int) string {
	replacement := byte('A')
	if s[i] == 'A' {
		replacement = 'B'
	}
	return s[:i] + string(replacement) + s[i+1:]
}
