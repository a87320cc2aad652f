// Package reference mints and decodes the merchant reference sent to
// Payomatix as merchant_ref. The reference is opaque to the gateway but
// carries the user/card association back to us through the webhook, since
// merchant_ref is the only field Payomatix echoes verbatim.
package reference

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

const prefix = "payomatix-ref"

var (
	userPattern = regexp.MustCompile(`-user_([A-Za-z0-9]+)`)
	cardPattern = regexp.MustCompile(`-card_([A-Za-z0-9]+)`)
)

// New builds a fresh reference: payomatix-ref-<unix-ms>-<0..9999>, with
// -user_<id> and -card_<id> appended when supplied. Uniqueness rests on
// timestamp+random entropy only; there is no collision guarantee.
func New(userID, cardID string) string {
	ref := fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.IntN(10000))
	if userID != "" {
		ref += "-user_" + userID
	}
	if cardID != "" {
		ref += "-card_" + cardID
	}
	return ref
}

// Decode extracts the user and card ids embedded by New. A reference
// without the suffixes (or one minted by the caller in another shape)
// yields empty strings, never an error.
func Decode(ref string) (userID, cardID string) {
	if m := userPattern.FindStringSubmatch(ref); m != nil {
		userID = m[1]
	}
	if m := cardPattern.FindStringSubmatch(ref); m != nil {
		cardID = m[1]
	}
	return userID, cardID
}
