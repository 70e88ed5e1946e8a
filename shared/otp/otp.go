// Package otp issues short-lived one-time codes used to prove email control.
package otp

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// TTL is how long a generated code stays valid.
const TTL = 60 * time.Second

// Code is a one-time numeric code together with its expiry.
type Code struct {
	Code      string
	ExpiresAt time.Time
}

// Generate returns a fresh six digit code (100000-999999) expiring TTL
// from now. The code is uniformly distributed but not cryptographically
// random; it is only ever valid for sixty seconds and a single use.
// Persisting the code onto an account is the caller's responsibility.
func Generate() Code {
	return Code{
		Code:      strconv.Itoa(100000 + rand.IntN(900000)),
		ExpiresAt: time.Now().Add(TTL),
	}
}
