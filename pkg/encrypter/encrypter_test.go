package encrypter_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"unified-calendar/pkg/encrypter"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncrypter(t *testing.T) {
	enc, err := encrypter.New(testKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		sealed, err := enc.Encrypt("ya29.secret")
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if strings.Contains(sealed, "ya29") {
			t.Errorf("ciphertext leaks plaintext")
		}
		plain, err := enc.Decrypt(sealed)
		if err != nil || plain != "ya29.secret" {
			t.Errorf("expected round trip, got %q, %v", plain, err)
		}
	})

	t.Run("nonce differs per call", func(t *testing.T) {
		a, _ := enc.Encrypt("same")
		b, _ := enc.Encrypt("same")
		if a == b {
			t.Errorf("expected distinct ciphertexts")
		}
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		sealed, _ := enc.Encrypt("value")
		raw, _ := base64.StdEncoding.DecodeString(sealed)
		raw[len(raw)-1] ^= 0xff
		_, err := enc.Decrypt(base64.StdEncoding.EncodeToString(raw))
		if !errors.Is(err, encrypter.ErrDecryptionFailure) {
			t.Errorf("expected ErrDecryptionFailure, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := enc.Decrypt("!!"); !errors.Is(err, encrypter.ErrMalformedCipher) {
			t.Errorf("expected ErrMalformedCipher, got %v", err)
		}
	})
}

func TestNewKeyForms(t *testing.T) {
	if _, err := encrypter.New(base64.StdEncoding.EncodeToString([]byte(testKey))); err != nil {
		t.Errorf("expected base64 key to be accepted: %v", err)
	}
	if _, err := encrypter.New("short"); !errors.Is(err, encrypter.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}
