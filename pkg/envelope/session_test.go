package envelope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuthentication(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		s := &Session{State: SessionAuthenticating}
		s.SetAuthentication(PlainAuthentication{Password: "123456"})

		assert.Equal(t, SchemePlain, s.Scheme)
		assert.Equal(t, "MTIzNDU2", s.Credentials.Password)

		auth, err := s.Authentication()
		require.NoError(t, err)
		assert.Equal(t, PlainAuthentication{Password: "123456"}, auth)
	})

	t.Run("Key", func(t *testing.T) {
		s := &Session{}
		s.SetAuthentication(KeyAuthentication{Key: "k3y"})

		auth, err := s.Authentication()
		require.NoError(t, err)
		assert.Equal(t, KeyAuthentication{Key: "k3y"}, auth)
	})

	t.Run("Guest", func(t *testing.T) {
		s := &Session{}
		s.SetAuthentication(GuestAuthentication{})

		auth, err := s.Authentication()
		require.NoError(t, err)
		assert.Equal(t, GuestAuthentication{}, auth)
	})

	t.Run("Unknown", func(t *testing.T) {
		s := &Session{Scheme: "transport"}
		_, err := s.Authentication()
		assert.True(t, errors.Is(err, ErrUnknownScheme))
	})

	t.Run("BadEncoding", func(t *testing.T) {
		s := &Session{Scheme: SchemePlain, Credentials: &Credentials{Password: "%%%"}}
		_, err := s.Authentication()
		assert.Error(t, err)
	})
}

func TestSessionOffersScheme(t *testing.T) {
	s := &Session{}
	assert.True(t, s.OffersScheme(SchemeKey), "no options means anything goes")

	s.SchemeOptions = []AuthenticationScheme{SchemeGuest, SchemePlain}
	assert.True(t, s.OffersScheme(SchemePlain))
	assert.False(t, s.OffersScheme(SchemeKey))
}

func TestSessionStateTerminal(t *testing.T) {
	assert.True(t, SessionFinished.IsTerminal())
	assert.True(t, SessionFailed.IsTerminal())
	assert.False(t, SessionEstablished.IsTerminal())
	assert.Equal(t, "ESTABLISHED", SessionEstablished.String())
}
