package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlyingStore := NewMockStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	callSID := "CA123"
	originalState := domain.NewCallState(callSID, "support-menu")
	originalState.From = "+15005550006"
	originalState.Digits["menu"] = "4"

	// 1. Save
	if err := secureStore.Save(ctx, callSID, originalState); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	storedState, err := underlyingStore.Load(ctx, callSID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if storedState.Flow != "encrypted" {
		t.Errorf("Expected flow name to be hidden, found: %v", storedState.Flow)
	}
	if storedState.From != "" {
		t.Errorf("Expected caller number to be hidden, found: %v", storedState.From)
	}
	if _, ok := storedState.Digits["menu"]; ok {
		t.Fatal("Expected digits to be hidden")
	}
	if _, ok := storedState.Digits["__encrypted__"]; !ok {
		t.Fatal("Expected __encrypted__ entry in digits")
	}
	if storedState.Status != domain.StatusInProgress {
		t.Errorf("Expected status to stay visible, got: %v", storedState.Status)
	}

	// 3. Load via Middleware (Should be decrypted)
	loadedState, err := secureStore.Load(ctx, callSID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loadedState.Flow != "support-menu" {
		t.Errorf("Expected 'support-menu', got %v", loadedState.Flow)
	}
	if loadedState.From != "+15005550006" {
		t.Errorf("Expected caller number back, got %v", loadedState.From)
	}
	if loadedState.Digits["menu"] != "4" {
		t.Errorf("Expected digits back, got %v", loadedState.Digits["menu"])
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	// Create middleware with OLD key to save initial state
	mwOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	secureStoreOld := mwOld(underlyingStore)

	ctx := context.Background()
	callSID := "CA456"
	originalState := domain.NewCallState(callSID, "voicemail")
	originalState.Transcription = "encrypted-with-old-key"

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, callSID, originalState); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	mwNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	secureStoreNew := mwNew(underlyingStore)

	loadedState, err := secureStoreNew.Load(ctx, callSID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}

	if loadedState.Transcription != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again (Should now encrypt with NEW key)
	loadedState.Transcription = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, callSID, loadedState); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just OLD key anymore
	_, err = secureStoreOld.Load(ctx, callSID)
	if err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_FailsSecureOnPlainState(t *testing.T) {
	underlyingStore := NewMockStore()
	ctx := context.Background()

	// A state written before encryption was enabled
	plain := domain.NewCallState("CA789", "menu")
	if err := underlyingStore.Save(ctx, "CA789", plain); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if _, err := mw(underlyingStore).Load(ctx, "CA789"); err == nil {
		t.Error("Expected failure loading a state without an envelope")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
