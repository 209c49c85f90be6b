package authorization

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Double-submit CSRF protection for the cookie-carried refresh token.
// The secret lives in an http-only cookie, the derived token travels in
// a header; a token is salt + HMAC-SHA256(secret, salt).

func GenerateCsrfSecret() string {
	return uuid.NewString()
}

func CreateCsrfToken(secret string) string {
	salt := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return salt + "." + csrfDigest(secret, salt)
}

func VerifyCsrfToken(secret string, token string) bool {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	expected := csrfDigest(secret, parts[0])
	return hmac.Equal([]byte(expected), []byte(parts[1]))
}

func csrfDigest(secret string, salt string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(salt))
	return hex.EncodeToString(mac.Sum(nil))
}
