package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"strings"
)

// SignParams calculates the signature field for a signed upload request.
// The signed string is the request parameters sorted by name, joined as
// key=value pairs with "&", with the API secret appended at the end:
//
//	folder=a&timestamp=1700000000<secret>
//
// The file payload, the api_key field and the signature itself are never
// part of the signed string.
func SignParams(params map[string]string, secret string) string {
	var msg strings.Builder
	for i, k := range slices.Sorted(maps.Keys(params)) {
		if i > 0 {
			msg.WriteString("&")
		}
		msg.WriteString(k)
		msg.WriteString("=")
		msg.WriteString(params[k])
	}
	msg.WriteString(secret)

	sum := sha256.Sum256([]byte(msg.String()))
	return hex.EncodeToString(sum[:])
}
