package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestVerifyBcrypt(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hashed, "s3cret") {
		t.Error("bcrypt hash did not verify")
	}
	if VerifyPassword(hashed, "wrong") {
		t.Error("bcrypt accepted a wrong password")
	}
}

func TestVerifyLegacyHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("pepper"))
	mac.Write([]byte("hunter2"))
	stored := "sha256$pepper$" + hex.EncodeToString(mac.Sum(nil))

	if !VerifyPassword(stored, "hunter2") {
		t.Error("legacy HMAC hash did not verify")
	}
	if VerifyPassword(stored, "hunter3") {
		t.Error("legacy HMAC accepted a wrong password")
	}
}

func TestVerifyPBKDF2(t *testing.T) {
	key := pbkdf2.Key([]byte("pass123"), []byte("salty"), 150000, 32, sha256.New)
	stored := "pbkdf2:sha256:150000$salty$" + hex.EncodeToString(key)

	if !VerifyPassword(stored, "pass123") {
		t.Error("pbkdf2 hash did not verify")
	}
	if VerifyPassword(stored, "pass124") {
		t.Error("pbkdf2 accepted a wrong password")
	}
}

func TestVerifyPBKDF2DefaultIterations(t *testing.T) {
	// method segment without an explicit count falls back to 150000
	key := pbkdf2.Key([]byte("pass123"), []byte("salty"), 150000, 32, sha256.New)
	stored := "pbkdf2:sha256$salty$" + hex.EncodeToString(key)

	if !VerifyPassword(stored, "pass123") {
		t.Error("default iteration count not applied")
	}
}

func TestVerifyBareSHA256(t *testing.T) {
	sum := sha256.Sum256([]byte("opensesame"))
	stored := hex.EncodeToString(sum[:])

	if !VerifyPassword(stored, "opensesame") {
		t.Error("bare sha256 hash did not verify")
	}
}

func TestVerifyPlaintextFallback(t *testing.T) {
	if !VerifyPassword("devpassword", "devpassword") {
		t.Error("plaintext fallback did not verify")
	}
	if VerifyPassword("devpassword", "other") {
		t.Error("plaintext fallback accepted a wrong password")
	}
}

func TestSchemeOrderIsDeclared(t *testing.T) {
	want := []string{"bcrypt", "hmac-sha256", "pbkdf2-sha256", "sha256-hex", "plaintext"}
	if len(passwordSchemes) != len(want) {
		t.Fatalf("expected %d schemes, got %d", len(want), len(passwordSchemes))
	}
	for i, s := range passwordSchemes {
		if s.name != want[i] {
			t.Errorf("scheme %d = %s, want %s", i, s.name, want[i])
		}
	}
}

func TestMalformedStoredHashesRejected(t *testing.T) {
	for _, stored := range []string{
		"sha256$onlyonepart",
		"pbkdf2:sha256$missinghash",
		fmt.Sprintf("sha256$%s$nothex", "salt"),
	} {
		if VerifyPassword(stored, "anything") {
			t.Errorf("malformed hash %q verified", stored)
		}
	}
}
