package identifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultLength is the number of hex characters kept from the digest.
const DefaultLength = 5

// Generate produces a short link id from the handle, campaign and content
// type plus the current nanosecond clock. Two calls with identical inputs
// still differ because of the time component. Ids are not tracked or
// checked for collisions; at this scale the residual probability is
// accepted.
func Generate(handle, campaign, contentType string) string {
	return GenerateN(handle, campaign, contentType, DefaultLength)
}

// GenerateN is Generate with an explicit id length.
func GenerateN(handle, campaign, contentType string, length int) string {
	seed := fmt.Sprintf("%s_%s_%s_%d", handle, campaign, contentType, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))
	digest := hex.EncodeToString(sum[:])
	if length > len(digest) {
		length = len(digest)
	}
	return digest[:length]
}
