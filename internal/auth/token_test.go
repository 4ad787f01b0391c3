package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(ttl time.Duration) (*TokenService, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("test-secret", ttl)
	svc.now = clock.Now
	return svc, clock
}

func alice() *model.User {
	return &model.User{ID: 1, Username: "alice", Roles: []model.Role{model.RoleUser}}
}

func TestIssue_RoundTrip(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(time.Hour)

	token, err := svc.Issue(alice())
	require.NoError(t, err)

	subject, err := svc.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.True(t, svc.Validate(token, alice()))
}

func TestIssue_RolesClaim(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(time.Hour)
	user := &model.User{Username: "root", Roles: []model.Role{model.RoleUser, model.RoleAdmin}}

	token, err := svc.Issue(user)
	require.NoError(t, err)

	authorities, err := svc.ExtractAuthorities(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, authorities)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_USER,ROLE_ADMIN", claims.Roles)
	assert.Equal(t, "root", claims.Subject)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestValidate_Expiry(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(time.Second)

	token, err := svc.Issue(alice())
	require.NoError(t, err)
	assert.True(t, svc.Validate(token, alice()))

	// 恰好到期即失效
	clock.Advance(time.Second)
	assert.False(t, svc.Validate(token, alice()))

	clock.Advance(time.Minute)
	assert.False(t, svc.Validate(token, alice()))
	_, err = svc.ExtractSubject(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_SubSecondIssueKeepsFullTTL(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(time.Second)
	clock.t = time.Date(2025, 3, 1, 12, 0, 0, 900*int(time.Millisecond), time.UTC)

	token, err := svc.Issue(alice())
	require.NoError(t, err)

	clock.Advance(150 * time.Millisecond)
	assert.True(t, svc.Validate(token, alice()))

	// exp 向上取整到 12:00:02
	clock.t = time.Date(2025, 3, 1, 12, 0, 2, 0, time.UTC)
	assert.False(t, svc.Validate(token, alice()))
}

func TestValidate_SubjectMismatch(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(time.Hour)

	token, err := svc.Issue(alice())
	require.NoError(t, err)

	bob := &model.User{ID: 2, Username: "bob"}
	assert.False(t, svc.Validate(token, bob))
	assert.False(t, svc.Validate(token, nil))
}

func TestValidate_FailsClosed(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(time.Hour)
	token, err := svc.Issue(alice())
	require.NoError(t, err)

	other := NewTokenService("another-secret", time.Hour)
	other.now = svc.now
	forged, err := other.Issue(alice())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, input := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"forged":    forged,
		"tampered":  tampered,
		"alg none":  unsigned,
		"two parts": parts[0] + "." + parts[1],
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, svc.Validate(input, alice()))
			_, err := svc.ExtractSubject(input)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
