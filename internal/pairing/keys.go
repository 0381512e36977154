package pairing

import "fmt"

// Key prefix for all pairing data
const keyPrefix = "couples"

// payloadKey returns the Redis list holding payloads offered under a code
func payloadKey(code Code) string {
	return fmt.Sprintf("%s:pair:%s", keyPrefix, code)
}
