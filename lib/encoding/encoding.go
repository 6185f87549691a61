// Package encoding signs and optionally encrypts component state tokens.
//
// Action URLs can carry a snapshot of server-side state so that a later
// request can restore it without a session store. The snapshot is msgpack
// encoded and then protected: signed with HMAC-SHA256 by default, or
// sealed with AES-256-GCM when the state must stay opaque to the client.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrInvalidFormat indicates a token that is not in the expected
	// data.signature shape or is not valid base64.
	ErrInvalidFormat = errors.New("encoding: invalid token format")

	// ErrSignatureInvalid indicates a signed token whose signature does
	// not verify. The payload must be discarded.
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")

	// ErrDecryptFailed indicates a sealed token that could not be opened.
	ErrDecryptFailed = errors.New("encoding: decryption failed")
)

const sigLen = 16

// Codec produces and consumes state tokens under a fixed key. A Codec is
// safe for concurrent use.
type Codec struct {
	key []byte
	gcm cipher.AEAD
}

// NewCodec creates a codec from key. Keys shorter or longer than 32 bytes
// are run through SHA-256 first, so any secret works, but a random 32-byte
// key is the right choice when you control provisioning.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("encoding: empty key")
	}
	if len(key) != 32 {
		sum := sha256.Sum256(key)
		key = sum[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encoding: cipher init: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encoding: gcm init: %w", err)
	}

	return &Codec{key: key, gcm: gcm}, nil
}

// EncodeToken packs v and protects it. With sensitive false the token is
// readable by the client but tamper-evident; with sensitive true it is
// sealed and unreadable.
func (c *Codec) EncodeToken(v any, sensitive bool) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: marshal state: %w", err)
	}
	if sensitive {
		return c.seal(packed)
	}
	return c.sign(packed), nil
}

// DecodeToken verifies or opens token and unpacks the state into v. The
// sensitive flag must match the one used to encode.
func (c *Codec) DecodeToken(token string, sensitive bool, v any) error {
	var packed []byte
	var err error
	if sensitive {
		packed, err = c.open(token)
	} else {
		packed, err = c.verify(token)
	}
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("encoding: unmarshal state: %w", err)
	}
	return nil
}

func (c *Codec) sign(data []byte) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(data)
	sig := mac.Sum(nil)[:sigLen]

	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(sig)
}

func (c *Codec) verify(token string) ([]byte, error) {
	dataPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}

	enc := base64.RawURLEncoding
	data, err := enc.DecodeString(dataPart)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	sig, err := enc.DecodeString(sigPart)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	mac := hmac.New(sha256.New, c.key)
	mac.Write(data)
	want := mac.Sum(nil)[:sigLen]
	if !hmac.Equal(sig, want) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (c *Codec) seal(data []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encoding: nonce: %w", err)
	}
	out := c.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (c *Codec) open(token string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	ns := c.gcm.NonceSize()
	if len(raw) < ns {
		return nil, ErrInvalidFormat
	}
	data, err := c.gcm.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
