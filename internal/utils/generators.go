package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateSessionID returns a 128-bit random token encoded as 32 hex chars.
func GenerateSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; treat a failure as
		// unrecoverable rather than degrade to a guessable id.
		panic(fmt.Sprintf("session id generation failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

// GenerateOrderID returns an order id in the form ORD-<millis>-<0..999>.
// The small random suffix means collisions are possible when two orders
// complete in the same millisecond; callers needing stronger guarantees
// should use a collision-resistant generator instead.
func GenerateOrderID(simulated bool) string {
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(1000))
	if simulated {
		return fmt.Sprintf("ORD-SIM-%d-%d", time.Now().UnixMilli(), randomNum.Int64())
	}
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), randomNum.Int64())
}

// RandomHex returns n random bytes hex-encoded.
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("random hex generation failed: %v", err))
	}
	return hex.EncodeToString(buf)
}
