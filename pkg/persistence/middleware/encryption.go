package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// envelopeKey marks a stored state as an encryption envelope.
const envelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.CallStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts call state using
// AES-GCM. Who called, what they pressed, and what they said stay opaque to
// the backing store; call SID, status and timestamps remain visible so
// operational tooling keeps working.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.CallStore) ports.CallStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	// 1. Serialize real state
	plainText, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal call state: %w", err)
	}

	// 2. Encrypt
	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt call state: %w", err)
	}

	// 3. Create envelope. Status and timestamps stay readable for monitoring
	// and pruning; everything else rides inside the ciphertext.
	envelope := &domain.CallState{
		CallSID:   state.CallSID,
		Flow:      "encrypted",
		Status:    state.Status,
		Digits:    map[string]string{envelopeKey: base64.StdEncoding.EncodeToString(ciphertext)},
		StartedAt: state.StartedAt,
		UpdatedAt: state.UpdatedAt,
	}

	return m.next.Save(ctx, callSID, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	// 1. Load envelope
	envelope, err := m.next.Load(ctx, callSID)
	if err != nil {
		return nil, err
	}

	// 2. Extract ciphertext. A state without an envelope was written before
	// encryption was enabled; fail secure rather than guess.
	encryptedStr, ok := envelope.Digits[envelopeKey]
	if !ok {
		return nil, errors.New("call state is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	// 3. Decrypt (Try Active, then Fallback)
	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt call state: %w", err)
	}

	// 4. Deserialize
	var realState domain.CallState
	if err := json.Unmarshal(plainText, &realState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted call state: %w", err)
	}
	if realState.Digits == nil {
		realState.Digits = make(map[string]string)
	}

	return &realState, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, callSID string) error {
	return m.next.Delete(ctx, callSID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
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

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
