package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// The user collection is shared with two older systems, so stored passwords
// arrive in several formats. Each format gets its own verifier; the declared
// order below is the contract, tried top to bottom with a short-circuit on
// the first match.
type passwordScheme struct {
	name   string
	verify func(stored, provided string) bool
}

var passwordSchemes = []passwordScheme{
	{"bcrypt", verifyBcrypt},
	{"hmac-sha256", verifyLegacyHMAC},
	{"pbkdf2-sha256", verifyPBKDF2},
	{"sha256-hex", verifyBareSHA256},
	{"plaintext", verifyPlaintext},
}

// VerifyPassword checks a provided password against whichever hash format the
// stored credential uses.
func VerifyPassword(stored, provided string) bool {
	for _, s := range passwordSchemes {
		if s.verify(stored, provided) {
			return true
		}
	}
	return false
}

// HashPassword produces the format new credentials are written in.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hashed), err
}

func verifyBcrypt(stored, provided string) bool {
	if !strings.HasPrefix(stored, "$2") {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
}

// verifyLegacyHMAC handles the old sha256$<salt>$<hash> format, where the
// salt is the HMAC key.
func verifyLegacyHMAC(stored, provided string) bool {
	if !strings.HasPrefix(stored, "sha256$") {
		return false
	}
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(parts[1]))
	mac.Write([]byte(provided))
	return hex.EncodeToString(mac.Sum(nil)) == parts[2]
}

// verifyPBKDF2 handles pbkdf2:sha256:<iterations>$<salt>$<hash>; the
// iteration count defaults to 150000 when the method segment omits it.
func verifyPBKDF2(stored, provided string) bool {
	if !strings.HasPrefix(stored, "pbkdf2:sha256") {
		return false
	}
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false
	}
	iterations := 150000
	if seg := strings.Split(parts[0], ":"); len(seg) == 3 {
		if n, err := strconv.Atoi(seg[2]); err == nil && n > 0 {
			iterations = n
		}
	}
	key := pbkdf2.Key([]byte(provided), []byte(parts[1]), iterations, 32, sha256.New)
	return hex.EncodeToString(key) == parts[2]
}

func verifyBareSHA256(stored, provided string) bool {
	sum := sha256.Sum256([]byte(provided))
	return stored == hex.EncodeToString(sum[:])
}

// Plaintext comparison survives only for a handful of hand-seeded dev
// accounts. TODO: migrate those rows to bcrypt and drop this verifier.
func verifyPlaintext(stored, provided string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) == 1
}
