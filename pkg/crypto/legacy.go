package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// LegacyKeySize is the AES-192 key length in bytes.
	LegacyKeySize = 24
	// LegacyIVSize is the CBC initialisation vector length in bytes.
	LegacyIVSize = aes.BlockSize
)

var (
	// ErrEmptySecret is returned when a cipher is requested without a secret.
	ErrEmptySecret = errors.New("secret is empty")
	// ErrInvalidCiphertext is returned for input that is not hex or not a
	// whole number of blocks.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	// ErrBadPadding is returned when the decrypted padding is malformed,
	// which almost always means the secret is wrong.
	ErrBadPadding = errors.New("bad decrypt: invalid padding")
	// ErrInvalidPlaintext is returned when the decrypted bytes are not UTF-8.
	ErrInvalidPlaintext = errors.New("bad decrypt: plaintext is not valid UTF-8")
)

// LegacyCipher encrypts and decrypts bot file fields with the legacy scheme:
// AES-192-CBC with key and IV derived from the secret by OpenSSL's
// EVP_BytesToKey (MD5, one round, no salt), PKCS#7 padding, hex ciphertext.
// Output is interchangeable with
// `openssl enc -aes-192-cbc -md md5 -nosalt -pass pass:<secret>`.
type LegacyCipher struct {
	key []byte
	iv  []byte
}

// NewLegacyCipher derives the key material for secret.
func NewLegacyCipher(secret string) (*LegacyCipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key, iv := bytesToKey([]byte(secret), LegacyKeySize, LegacyIVSize)
	return &LegacyCipher{key: key, iv: iv}, nil
}

// bytesToKey implements EVP_BytesToKey with MD5, no salt and one iteration:
// D_i = MD5(D_{i-1} || password), concatenated until key and iv are filled.
func bytesToKey(password []byte, keyLen, ivLen int) ([]byte, []byte) {
	var (
		out  = make([]byte, 0, keyLen+ivLen+md5.Size)
		prev []byte
	)
	for len(out) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:keyLen], out[keyLen : keyLen+ivLen]
}

// Encrypt encrypts a UTF-8 plaintext and returns lowercase hex ciphertext.
func (c *LegacyCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt decrypts hex ciphertext produced by Encrypt.
func (c *LegacyCipher) Decrypt(ciphertext string) (string, error) {
	data, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidCiphertext, len(data), aes.BlockSize)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", ErrInvalidPlaintext
	}
	return string(plain), nil
}

// Zeroize attempts to clear key material from memory.
func (c *LegacyCipher) Zeroize() {
	if c == nil {
		return
	}
	for i := range c.key {
		c.key[i] = 0
	}
	for i := range c.iv {
		c.iv[i] = 0
	}
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrBadPadding
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-n], nil
}

// EncryptString encrypts value with secret in one call.
func EncryptString(value, secret string) (string, error) {
	c, err := NewLegacyCipher(secret)
	if err != nil {
		return "", err
	}
	defer c.Zeroize()
	return c.Encrypt(value)
}

// DecryptString decrypts hex ciphertext with secret in one call.
func DecryptString(ciphertext, secret string) (string, error) {
	c, err := NewLegacyCipher(secret)
	if err != nil {
		return "", err
	}
	defer c.Zeroize()
	return c.Decrypt(ciphertext)
}
