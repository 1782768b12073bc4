package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"strings"
)

const UserSignatureHeader = "X-User-Signature"

// GatewaySignatureVerification rejects requests whose X-User-ID was not
// signed by the authenticating gateway. The signature is
// "sha256=" + hex(HMAC-SHA256(secret, user id)). Anonymous requests pass.
func GatewaySignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			signature := extractSignature(r)
			if signature == "" {
				logAndReject(w, log, r, "Missing "+UserSignatureHeader+" header")
				return
			}

			if !verifySignature(userID, signature, secret) {
				logAndReject(w, log, r, "Invalid identity signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func SignUserID(userID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(userID))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func extractSignature(r *http.Request) string {
	header := r.Header.Get(UserSignatureHeader)
	if signature, found := strings.CutPrefix(header, "sha256="); found {
		return signature
	}
	return header
}

func verifySignature(userID, receivedSignature, secret string) bool {
	expected, _ := strings.CutPrefix(SignUserID(userID, secret), "sha256=")
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(receivedSignature)))
}

func logAndReject(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Gateway identity verification failed",
		"request_id", RequestIDFromContext(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	writeJSONError(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "Unauthorized")
}
