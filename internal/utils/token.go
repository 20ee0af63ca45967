package utils

import "crypto/hmac"

// SecureCompare compares two tokens in constant time.
func SecureCompare(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
