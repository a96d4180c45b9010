package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	p := NewProvider("test-secret", time.Hour)

	token, err := p.Issue(models.User{ID: "user-1", Role: models.RoleProjectManager})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, models.RoleProjectManager, sess.Role)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := NewProvider("test-secret", time.Hour)

	_, err := p.Verify("not-a-token")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewProvider("secret-a", time.Hour)
	verifier := NewProvider("secret-b", time.Hour)

	token, err := issuer.Issue(models.User{ID: "user-1", Role: models.RoleColaborator})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	p := NewProvider("test-secret", -time.Minute)

	token, err := p.Issue(models.User{ID: "user-1", Role: models.RoleColaborator})
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
