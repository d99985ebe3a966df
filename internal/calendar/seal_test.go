package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealRoundTrip(t *testing.T) {
	s := newSealer("hunter2")
	require.NotNil(t, s)

	plaintext := []byte(`{"access_token":"ya29.abc","refresh_token":"1//xyz"}`)
	sealed, err := s.seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := s.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSealNoncesDiffer(t *testing.T) {
	s := newSealer("hunter2")

	a, err := s.seal([]byte("token"))
	require.NoError(t, err)
	b, err := s.seal([]byte("token"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNilSealerPassthrough(t *testing.T) {
	s := newSealer("")
	require.Nil(t, s)

	plaintext := []byte("token")
	sealed, err := s.seal(plaintext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, sealed)

	opened, err := s.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestWrongPassphraseFails(t *testing.T) {
	sealed, err := newSealer("correct").seal([]byte("token"))
	require.NoError(t, err)

	_, err = newSealer("incorrect").open(sealed)
	assert.Error(t, err)
}

func TestOpenTruncatedCiphertext(t *testing.T) {
	_, err := newSealer("hunter2").open([]byte("short"))
	assert.Error(t, err)
}
