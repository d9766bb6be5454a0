package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDigestDeterministic(t *testing.T) {
	a := OrderDigest("order_abc", "pay_123", "testsecret")
	b := OrderDigest("order_abc", "pay_123", "testsecret")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, strings.ToLower(a), a, "digest must be lowercase hex")

	_, err := hex.DecodeString(a)
	require.NoError(t, err)
}

func TestOrderDigestCanonicalInput(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("testsecret"))
	mac.Write([]byte("order_abc|pay_123"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, OrderDigest("order_abc", "pay_123", "testsecret"))
}

func TestOrderDigestInputSensitivity(t *testing.T) {
	base := OrderDigest("order_abc", "pay_123", "testsecret")
	assert.NotEqual(t, base, OrderDigest("order_abd", "pay_123", "testsecret"))
	assert.NotEqual(t, base, OrderDigest("order_abc", "pay_124", "testsecret"))
	assert.NotEqual(t, base, OrderDigest("order_abc", "pay_123", "testsecres"))
}

func TestOrderDigestNoCollisionsAcrossSample(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 200; i++ {
		orderID := fmt.Sprintf("order_%d", i)
		paymentID := fmt.Sprintf("pay_%d", i%50)
		d := OrderDigest(orderID, paymentID, "testsecret")
		prev, dup := seen[d]
		require.False(t, dup, "collision between %s and %s|%s", prev, orderID, paymentID)
		seen[d] = orderID + "|" + paymentID
	}
}

func TestVerifyOrderSignature(t *testing.T) {
	sig := OrderDigest("order_abc", "pay_123", "testsecret")
	assert.True(t, VerifyOrderSignature("order_abc", "pay_123", sig, "testsecret"))
	assert.False(t, VerifyOrderSignature("order_abc", "pay_123", "deadbeef", "testsecret"))
}

func TestVerifyOrderSignatureRejectsEveryBitFlip(t *testing.T) {
	sig := OrderDigest("order_abc", "pay_123", "testsecret")
	raw, err := hex.DecodeString(sig)
	require.NoError(t, err)

	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 1 << bit
			assert.False(t,
				VerifyOrderSignature("order_abc", "pay_123", hex.EncodeToString(tampered), "testsecret"),
				"flip byte %d bit %d accepted", i, bit)
		}
	}
}

func TestPayChecksum(t *testing.T) {
	payload := "eyJrZXkiOiJ2YWx1ZSJ9"
	sum := sha256.Sum256([]byte(payload + "/pg/v1/pay" + "salt"))
	expected := hex.EncodeToString(sum[:]) + "###2"

	assert.Equal(t, expected, PayChecksum(payload, "salt", "2"))
}

func TestStatusChecksum(t *testing.T) {
	sum := sha256.Sum256([]byte("/pg/v1/status/MID/txn_1" + "salt"))
	expected := hex.EncodeToString(sum[:]) + "###1"

	assert.Equal(t, expected, StatusChecksum("MID", "txn_1", "salt", "1"))
}

func TestChecksumSaltIndexDefaultsToOne(t *testing.T) {
	assert.True(t, strings.HasSuffix(StatusChecksum("MID", "txn_1", "salt", ""), "###1"))
	assert.True(t, strings.HasSuffix(PayChecksum("cGF5bG9hZA==", "salt", ""), "###1"))
}
