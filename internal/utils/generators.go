package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderID builds an order id from the current time in milliseconds
// and a random base36 suffix. Monotonic enough for a single low-throughput
// process; collisions are treated as negligible, not impossible.
func GenerateOrderID() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomSuffix(6))
}

func randomSuffix(n int) string {
	suffix := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand should not fail; fall back to a fixed character
			// rather than aborting order submission.
			suffix[i] = idAlphabet[0]
			continue
		}
		suffix[i] = idAlphabet[idx.Int64()]
	}
	return string(suffix)
}
