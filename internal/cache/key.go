package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// keyPrefix namespaces every cache entry written by this application.
const keyPrefix = "canvasplus:roster"

// Key identifies one cached roster result. Entries are namespaced by a
// token fingerprint, so a credential change can never surface another
// credential's data and invalidation can target one token's entries.
type Key struct {
	TokenFingerprint string
	CourseID         int64
	FilterCategoryID int64
	InfoColumns      []string
	GroupCategoryIDs []int64
}

// TokenFingerprint derives a short, non-reversible identifier for an
// access token. The raw token never becomes part of a cache key.
func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// String renders the deterministic storage key.
func (k Key) String() string {
	cats := make([]string, len(k.GroupCategoryIDs))
	for i, id := range k.GroupCategoryIDs {
		cats[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s:%s:%d:%d:%s:%s",
		keyPrefix,
		k.TokenFingerprint,
		k.CourseID,
		k.FilterCategoryID,
		strings.Join(k.InfoColumns, ","),
		strings.Join(cats, ","),
	)
}

// tokenPattern matches every key belonging to one token fingerprint.
func tokenPattern(fingerprint string) string {
	return keyPrefix + ":" + fingerprint + ":*"
}
