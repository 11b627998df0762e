package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(t *testing.T, secret string) (*Issuer, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	iss, err := NewIssuer(secret, 30*time.Minute, WithClock(clk.Now))
	require.NoError(t, err)
	return iss, clk
}

var alice = Identity{Username: "alice", ID: 7}

func TestIssuer_RoundTrip(t *testing.T) {
	iss, _ := newTestIssuer(t, "k1")

	tok, err := iss.Issue(alice, 0)
	require.NoError(t, err)

	got, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestIssuer_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		elapsed time.Duration
		wantErr bool
	}{
		{name: "fresh", ttl: time.Minute, elapsed: 0},
		{name: "one second before exp", ttl: time.Minute, elapsed: time.Minute - time.Second},
		{name: "exactly exp", ttl: time.Minute, elapsed: time.Minute, wantErr: true},
		{name: "after exp", ttl: time.Minute, elapsed: time.Hour, wantErr: true},
		{name: "default ttl still valid", ttl: 0, elapsed: 29 * time.Minute},
		{name: "default ttl passed", ttl: 0, elapsed: 30 * time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iss, clk := newTestIssuer(t, "k1")
			start := clk.t

			tok, err := iss.Issue(alice, tt.ttl)
			require.NoError(t, err)

			clk.t = start.Add(tt.elapsed)
			_, err = iss.Verify(tok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTokenExpired)
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssuer_FractionalSecondIssue(t *testing.T) {
	iss, clk := newTestIssuer(t, "k1")
	start := clk.t
	clk.t = start.Add(700 * time.Millisecond)

	tok, err := iss.Issue(alice, time.Minute)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.WithinDuration(t, start, claims.IssuedAt.Time, 0)
	assert.Equal(t, time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	clk.t = start.Add(time.Minute - time.Nanosecond)
	_, err = iss.Verify(tok)
	assert.NoError(t, err)

	clk.t = start.Add(time.Minute)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_DifferentKeyFails(t *testing.T) {
	a, _ := newTestIssuer(t, "key-a")
	b, _ := newTestIssuer(t, "key-b")

	for _, id := range []Identity{alice, {Username: "bob", ID: 1}, {Username: "root", ID: 999}} {
		tok, err := a.Issue(id, time.Hour)
		require.NoError(t, err)
		_, err = b.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestIssuer_RejectsMalformed(t *testing.T) {
	iss, clk := newTestIssuer(t, "k1")
	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(clk.t.Add(time.Hour))

	tests := map[string]string{
		"empty":    "",
		"garbage":  "not.a.token",
		"no sub":   sign(jwt.SigningMethodHS256, []byte("k1"), Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}, UserID: 7}),
		"no id":    sign(jwt.SigningMethodHS256, []byte("k1"), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}}),
		"no exp":   sign(jwt.SigningMethodHS256, []byte("k1"), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}, UserID: 7}),
		"hs512":    sign(jwt.SigningMethodHS512, []byte("k1"), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}, UserID: 7}),
		"alg none": sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}, UserID: 7}),
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssuer_IssueRequiresIdentity(t *testing.T) {
	iss, _ := newTestIssuer(t, "k1")
	_, err := iss.Issue(Identity{Username: "alice"}, time.Minute)
	assert.Error(t, err)
	_, err = iss.Issue(Identity{ID: 1}, time.Minute)
	assert.Error(t, err)
}

func TestNewIssuer(t *testing.T) {
	_, err := NewIssuer("", time.Minute)
	assert.Error(t, err)

	iss, err := NewIssuer("k", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, iss.TTL())
}
