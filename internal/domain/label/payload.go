// Package label builds and verifies QR label payloads for product tags.
package label

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"stockflow/internal/pkg/errs"
)

// Payload format: SF1:<COMP>:<SKU>:<CHK>
const prefix = "SF1"

var ErrBadPayload = errs.New("malformed label payload")

// checksum takes the first 6 base32 chars of HMAC-SHA256(secret, "COMP|SKU"),
// about 30 bits. Enough to catch mistyped or foreign codes.
func checksum(secret, companyCode, sku string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", companyCode, sku)
	return base32.StdEncoding.EncodeToString(mac.Sum(nil))[:6]
}

func BuildPayload(secret, companyCode, sku string) string {
	return fmt.Sprintf("%s:%s:%s:%s", prefix, companyCode, sku, checksum(secret, companyCode, sku))
}

// ParsePayload splits a scanned payload and verifies its checksum.
// Returns the company code and SKU it carries.
func ParsePayload(secret, payload string) (companyCode, sku string, err error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 4 || parts[0] != prefix {
		return "", "", ErrBadPayload
	}
	companyCode, sku, chk := parts[1], parts[2], parts[3]
	if !hmac.Equal([]byte(chk), []byte(checksum(secret, companyCode, sku))) {
		return "", "", ErrBadPayload
	}
	return companyCode, sku, nil
}
