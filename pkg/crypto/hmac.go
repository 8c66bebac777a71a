package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// WebhookRetryDelays is the fixed retry schedule for webhook delivery on
// transport failure. The delivery path itself is out of scope for
// this core; only the schedule constant and the signing/verification
// primitives below live here, for the external collaborator that does own
// delivery.
var WebhookRetryDelays = []time.Duration{1 * time.Second, 4 * time.Second, 16 * time.Second}

// SignWebhookPayload computes the "sha256=<hex>" signature header value for
// body under secret.
func SignWebhookPayload(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks header against body under secret using a
// constant-time comparison, so a timing side-channel cannot be used to guess
// the secret byte-by-byte.
func VerifyWebhookSignature(secret, body []byte, header string) (bool, error) {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false, fmt.Errorf("crypto: webhook signature missing %q prefix", prefix)
	}
	want, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false, fmt.Errorf("crypto: webhook signature not valid hex: %w", err)
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	got := mac.Sum(nil)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
