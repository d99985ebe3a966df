package calendar

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfIterations = 100000
	kdfKeySize    = 32 // AES-256
)

// sealer encrypts the cached OAuth token at rest. A nil sealer passes data
// through unchanged, so encryption stays optional.
type sealer struct {
	key []byte
}

// newSealer derives an AES-256 key from a passphrase using PBKDF2. The salt
// is derived from the passphrase itself; the sealed file is per-user and
// local, not a shared credential store.
func newSealer(passphrase string) *sealer {
	if passphrase == "" {
		return nil
	}
	salt := sha256.Sum256([]byte(passphrase + "timetable-sync-token"))
	key := pbkdf2.Key([]byte(passphrase), salt[:], kdfIterations, kdfKeySize, sha256.New)
	return &sealer{key: key}
}

// seal encrypts plaintext with AES-GCM, prepending the nonce.
func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	if s == nil {
		return plaintext, nil
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts data produced by seal.
func (s *sealer) open(data []byte) ([]byte, error) {
	if s == nil {
		return data, nil
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, errors.New("sealed token too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
