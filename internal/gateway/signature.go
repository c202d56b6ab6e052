package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature reports whether sig is the hex-encoded HMAC-SHA256 of
// "<orderID>|<paymentID>" under the gateway key secret. Comparison is
// constant-time.
func VerifySignature(secret, orderID, paymentID, sig string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
