// Package cryptox implements field-level envelope encryption for free-text
// columns and password hashing for accounts.
//
// A token has the form
//
//	base64(iv) ":" base64(tag) ":" base64(ciphertext)
//
// where iv and tag are 16 bytes each and the cipher is AES-256-GCM. Values
// without a ':' are legacy plaintext written before encryption was
// introduced and are returned unchanged by Decrypt.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lifememo/navi/internal/common"
)

const (
	ivLength     = 16
	tagLength    = 16
	keyHexLength = 64
	separator    = ":"
	segments     = 3
)

// Cipher encrypts and decrypts single text values with a process-wide key.
// It is immutable after construction and safe for concurrent use.
type Cipher struct {
	key    []byte
	keyErr error
	strict bool
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithStrictTokens makes Decrypt fail with common.ErrDecryption on values
// that have exactly three segments but do not decode as a token. By default
// such values are passed through as plaintext.
func WithStrictTokens(strict bool) Option {
	return func(c *Cipher) { c.strict = strict }
}

// NewCipher builds a Cipher from a 64-character hex key. A missing or
// malformed key does not fail construction; every Encrypt/Decrypt call that
// needs the key returns the configuration error instead. Use Validate to
// fail fast at startup.
func NewCipher(hexKey string, opts ...Option) *Cipher {
	c := &Cipher{}
	c.key, c.keyErr = ParseKey(hexKey)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseKey decodes a 32-byte key given as 64 hex characters.
func ParseKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, fmt.Errorf("%w: encryption key is not set", common.ErrConfiguration)
	}
	if len(hexKey) != keyHexLength {
		return nil, fmt.Errorf("%w: encryption key must be %d hex characters, got %d",
			common.ErrConfiguration, keyHexLength, len(hexKey))
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key is not valid hex", common.ErrConfiguration)
	}
	return key, nil
}

// Validate reports the key configuration error, if any.
func (c *Cipher) Validate() error {
	return c.keyErr
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	if c.keyErr != nil {
		return nil, c.keyErr
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return cipher.NewGCMWithNonceSize(block, ivLength)
}

// Encrypt seals plaintext under a fresh random IV. The empty string is
// returned unchanged.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	iv := common.GenerateRandByteArray(ivLength)

	// Seal appends the tag to the ciphertext.
	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagLength], sealed[len(sealed)-tagLength:]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ct),
	}, separator), nil
}

// Decrypt opens a token produced by Encrypt.
//
// Empty values and values without a separator are returned unchanged, as are
// values that do not split into exactly three segments. A three-segment value
// whose first segment is not a base64 16-byte iv is passed through too unless
// the cipher is strict. Once the iv decodes, a damaged tag or ciphertext and
// any authentication failure return common.ErrDecryption.
func (c *Cipher) Decrypt(token string) (string, error) {
	if token == "" || !strings.Contains(token, separator) {
		return token, nil
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	parts := strings.Split(token, separator)
	if len(parts) != segments {
		return token, nil
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		if c.strict {
			return "", fmt.Errorf("%w: malformed token", common.ErrDecryption)
		}
		return token, nil
	}

	// A 16-byte iv marks a token; damage past this point is an error.
	tag, tagErr := base64.StdEncoding.DecodeString(parts[1])
	ct, ctErr := base64.StdEncoding.DecodeString(parts[2])
	if tagErr != nil || ctErr != nil || len(tag) != tagLength {
		return "", fmt.Errorf("%w: damaged token", common.ErrDecryption)
	}

	plaintext, err := aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return string(plaintext), nil
}

// EncryptOptional encrypts *s, keeping nil as nil.
func (c *Cipher) EncryptOptional(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	out, err := c.Encrypt(*s)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecryptOptional decrypts *s, keeping nil as nil.
func (c *Cipher) DecryptOptional(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	out, err := c.Decrypt(*s)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IsEncrypted reports whether value has the shape of a token. It does not
// verify anything cryptographically.
func IsEncrypted(value string) bool {
	return value != "" && len(strings.Split(value, separator)) == segments
}

// GenerateKey returns a fresh key as 64 hex characters, suitable for the
// encryption key setting.
func GenerateKey() (string, error) {
	return common.MakeRandHexString(keyHexLength / 2)
}
