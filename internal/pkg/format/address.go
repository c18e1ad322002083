package format

import (
	"math/rand"
	"regexp"
	"strconv"
	"time"
)

// base58Pattern matches the Solana base58 alphabet (no 0, O, I, l).
var base58Pattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]+$`)

const pubkeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// IsValidSolanaAddress performs a purely syntactic check: length window
// [32,44] and base58 character class. No checksum verification.
func IsValidSolanaAddress(address string) bool {
	if len(address) < 32 || len(address) > 44 {
		return false
	}
	return base58Pattern.MatchString(address)
}

// OrderID produces a random-looking on-ramp order identifier. Cosmetic
// only; uniqueness relies on the timestamp plus a random suffix.
func OrderID() string {
	suffix := strconv.FormatInt(rand.Int63(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return "ord_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix
}

// PublicKey produces a fixed-length random base62-like string shaped like a
// Solana public key. Not a real key.
func PublicKey() string {
	buf := make([]byte, 44)
	for i := range buf {
		buf[i] = pubkeyAlphabet[rand.Intn(len(pubkeyAlphabet))]
	}
	return string(buf)
}
