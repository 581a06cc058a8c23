package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature is the checkout signature for an order/payment pair:
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func PaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidPaymentSignature compares in constant time.
func ValidPaymentSignature(secret, orderID, paymentID, signature string) bool {
	want := PaymentSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(want), []byte(signature))
}
