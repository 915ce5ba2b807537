package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signCallback(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestRazorpayVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_key", "super-secret")

	orderID := "order_Abc123"
	paymentID := "pay_Xyz789"
	good := signCallback("super-secret", orderID, paymentID)

	assert.True(t, g.VerifySignature(orderID, paymentID, good))

	t.Run("rejects a tampered signature", func(t *testing.T) {
		assert.False(t, g.VerifySignature(orderID, paymentID, good[:len(good)-1]+"0"))
	})

	t.Run("rejects a signature for a different order", func(t *testing.T) {
		assert.False(t, g.VerifySignature("order_Other", paymentID, good))
	})

	t.Run("rejects a signature minted with the wrong secret", func(t *testing.T) {
		forged := signCallback("guessed-secret", orderID, paymentID)
		assert.False(t, g.VerifySignature(orderID, paymentID, forged))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, g.VerifySignature(orderID, paymentID, ""))
	})
}
