package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier(secret, "lessonforge")
	id := Identity{UserID: uuid.New(), Name: "ada", Role: models.RolePremium}

	token, err := v.Issue(id, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier(secret, "lessonforge")
	id := Identity{UserID: uuid.New()}

	expired, err := v.Issue(id, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	otherIssuer, err := NewVerifier(secret, "someone-else").Issue(id, time.Hour, time.Now())
	require.NoError(t, err)
	otherKey, err := NewVerifier("another-secret-value", "lessonforge").Issue(id, time.Hour, time.Now())
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "42",
		Issuer:    "lessonforge",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"issuer":       otherIssuer,
		"signature":    otherKey,
		"subject uuid": badSubject,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestVerify_UnknownRoleFallsBackToUser(t *testing.T) {
	v := NewVerifier(secret, "")
	token, err := v.Issue(Identity{UserID: uuid.New(), Role: "superuser"}, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: uuid.New()}
	got, ok := FromContext(WithIdentity(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
