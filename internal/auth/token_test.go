package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestVerify_RoundTripUser(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, exp, err := tm.GenerateToken(domain.Subject{
		Type: domain.SubjectTypeUser, ID: "u-1", Email: "a@example.com", Name: "Alice",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, subject.Type)
	assert.Equal(t, "u-1", subject.ID)
	assert.Equal(t, "a@example.com", subject.Email)
	assert.False(t, subject.IsAdmin())
}

func TestVerify_AdminFlagSurvives(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, _, err := tm.GenerateToken(domain.Subject{Type: domain.SubjectTypeAdmin, ID: "adm", Email: "root@example.com"})
	require.NoError(t, err)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.True(t, subject.IsAdmin())
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }
	token, _, err := tm.GenerateToken(domain.Subject{Type: domain.SubjectTypeUser, ID: "u-1"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiryCheckedOnEveryCall(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	start := time.Now()
	tm.now = func() time.Time { return start }
	token, _, err := tm.GenerateToken(domain.Subject{Type: domain.SubjectTypeUser, ID: "u-1"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(61 * time.Minute) }
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("other-secret", 60)
	token, _, err := other.GenerateToken(domain.Subject{Type: domain.SubjectTypeAdmin, ID: "adm"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 60).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsMalformedAndEmpty(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tm.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestVerify_RejectsTokenWithoutExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{SubjectID: "u-1"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
