// Package cryptox implements the passphrase-based AES convention used for
// secret messages: OpenSSL-style salted key derivation (EVP_BytesToKey over
// MD5, one round) with AES-256-CBC and PKCS#7 padding, serialized as
// base64("Salted__" + salt + ciphertext).
//
// This matches CryptoJS.AES.encrypt(message, passphrase).toString() exactly,
// so ciphertext produced by existing web clients decrypts here and vice
// versa. The passphrase is the recipient's normalized email address, which
// makes the scheme deliberately weak: anyone holding the ciphertext and the
// recipient's email can decrypt offline. That is an inherited product
// decision, not an oversight; do not "harden" it without a migration path
// for stored ciphertext.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/secretspace/secretspace/internal/common"
)

const (
	saltedPrefix = "Salted__"
	saltSize     = 8
	keySize      = 32 // AES-256
)

// EncryptWithPassphrase encrypts plaintext under the given passphrase and
// returns the OpenSSL-salted base64 blob.
func EncryptWithPassphrase(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return encryptWithSalt([]byte(plaintext), []byte(passphrase), salt)
}

// DecryptWithPassphrase reverses EncryptWithPassphrase. Wrong passphrases,
// truncated blobs, and corrupted ciphertext all yield
// common.ErrDecryptionFailed; the caller cannot and should not distinguish
// between them.
func DecryptWithPassphrase(blob, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}
	if len(raw) < len(saltedPrefix)+saltSize || string(raw[:len(saltedPrefix)]) != saltedPrefix {
		return "", common.ErrDecryptionFailed
	}
	salt := raw[len(saltedPrefix) : len(saltedPrefix)+saltSize]
	ciphertext := raw[len(saltedPrefix)+saltSize:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", common.ErrDecryptionFailed
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, keySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, ok := pkcs7Unpad(plaintext)
	if !ok {
		return "", common.ErrDecryptionFailed
	}
	// CryptoJS surfaces a wrong key that survives unpadding as an empty or
	// garbage UTF-8 string; treat both the same way.
	if len(plaintext) == 0 || !utf8.Valid(plaintext) {
		return "", common.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func encryptWithSalt(plaintext, passphrase, salt []byte) (string, error) {
	key, iv := evpBytesToKey(passphrase, salt, keySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	out := make([]byte, 0, len(saltedPrefix)+saltSize+len(ciphertext))
	out = append(out, saltedPrefix...)
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// evpBytesToKey derives key material the way OpenSSL's EVP_BytesToKey does
// with MD5 and a single iteration: D_i = MD5(D_{i-1} || passphrase || salt),
// concatenated until keyLen+ivLen bytes are available.
func evpBytesToKey(passphrase, salt []byte, keyLen, ivLen int) (key, iv []byte) {
	var prev []byte
	var derived []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
