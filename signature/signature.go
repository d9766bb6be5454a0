// Package signature implements the keyed digests both gateway families use to
// authenticate payment callbacks and API requests.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const (
	// PayEndpoint is the checksum path segment for payment initiation
	PayEndpoint = "/pg/v1/pay"
	// StatusEndpoint is the checksum path prefix for status queries
	StatusEndpoint = "/pg/v1/status/"
)

// OrderDigest computes the order-signature digest: lowercase-hex HMAC-SHA256
// of "orderId|paymentId" keyed with the merchant API secret.
func OrderDigest(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyOrderSignature checks a callback signature against the recomputed
// digest. Comparison is constant-time.
func VerifyOrderSignature(orderID, paymentID, signature, secret string) bool {
	expected := OrderDigest(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// PayChecksum builds the X-VERIFY header value for a payment initiation:
// sha256(base64Payload + "/pg/v1/pay" + saltKey) + "###" + saltIndex.
func PayChecksum(base64Payload, saltKey, saltIndex string) string {
	return checksum(base64Payload+PayEndpoint+saltKey, saltIndex)
}

// StatusChecksum builds the X-VERIFY header value for a status query:
// sha256("/pg/v1/status/" + merchantID + "/" + merchantTransactionID + saltKey) + "###" + saltIndex.
func StatusChecksum(merchantID, merchantTransactionID, saltKey, saltIndex string) string {
	return checksum(StatusEndpoint+merchantID+"/"+merchantTransactionID+saltKey, saltIndex)
}

func checksum(input, saltIndex string) string {
	if saltIndex == "" {
		saltIndex = "1"
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}
