package services_test

import (
	"testing"
	"time"

	"boardsync/internal/core/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-issuer-secret"))
	require.NoError(t, err)
	return signed
}

func TestResolve_ClaimPrecedence(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	cases := []struct {
		name     string
		claims   jwt.MapClaims
		username string
	}{
		{
			name: "preferred_username wins",
			claims: jwt.MapClaims{
				"preferred_username": "alice",
				"name":               "Alice Liddell",
				"email":              "alice@example.com",
				"sub":                "u-1",
			},
			username: "alice",
		},
		{
			name: "name next",
			claims: jwt.MapClaims{
				"name":  "Alice Liddell",
				"email": "alice@example.com",
				"sub":   "u-1",
			},
			username: "Alice Liddell",
		},
		{
			name: "then email",
			claims: jwt.MapClaims{
				"email": "alice@example.com",
				"sub":   "u-1",
			},
			username: "alice@example.com",
		},
		{
			name:     "finally sub",
			claims:   jwt.MapClaims{"sub": "u-1"},
			username: "u-1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := svc.Resolve(signToken(t, tc.claims))
			require.NoError(t, err)
			assert.Equal(t, tc.username, identity.Username)
		})
	}
}

func TestResolve_ForeignSignatureIsAccepted(t *testing.T) {
	// The resolver decodes without verifying; tokens minted by an
	// external issuer with an unknown key still resolve.
	svc := services.NewIdentityService("local-secret", 15*time.Minute)

	identity, err := svc.Resolve(signToken(t, jwt.MapClaims{
		"preferred_username": "bob",
		"sub":                "u-2",
	}))
	require.NoError(t, err)
	assert.Equal(t, "bob", identity.Username)
	assert.Equal(t, "u-2", string(identity.Subject))
}

func TestResolve_EmptyCredential(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	_, err := svc.Resolve("")
	assert.ErrorIs(t, err, services.ErrNoCredential)
}

func TestResolve_MalformedToken(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	_, err := svc.Resolve("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestResolve_NoUsableIdentity(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	_, err := svc.Resolve(signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}))
	assert.ErrorIs(t, err, services.ErrNoUsableIdentity)
}

func TestIssueToken_RoundTrip(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	token, err := svc.IssueToken("carol", "carol@example.com")
	require.NoError(t, err)

	identity, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "carol", identity.Username)
	assert.Equal(t, "carol@example.com", identity.Email)
	assert.Equal(t, "carol", string(identity.Subject))
}

func TestResolve_SubjectFallsBackToUsername(t *testing.T) {
	svc := services.NewIdentityService("secret", 15*time.Minute)

	identity, err := svc.Resolve(signToken(t, jwt.MapClaims{
		"preferred_username": "dave",
	}))
	require.NoError(t, err)
	assert.Equal(t, "dave", string(identity.Subject))
}
