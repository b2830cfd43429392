package globals

import "os"

var JwtSecret = []byte(secretFromEnv())

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	// default kept in sync with the legacy deployment so existing tokens still verify
	return "protocol-department-secret-key-change-in-production"
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const ClaimsKey ContextKey = "claims"
