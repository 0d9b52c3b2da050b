package utils

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// MD5Hash returns the hex MD5 of the input; used for cache keys, not for
// anything security sensitive.
func MD5Hash(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

// SessionID derives a coarse per-user identifier from transport hints
// (IP + User-Agent). It rotates hourly so sessions stay short lived.
func SessionID(input string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d", input, time.Now().Unix()/3600)))
	return hex.EncodeToString(sum[:])[:16]
}

// RandomID returns a random hex identifier of the given length, falling
// back to a timestamp when the system RNG is unavailable.
func RandomID(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)[:length]
}
