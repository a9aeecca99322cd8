package billing

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	// SignField carries the digest in provider requests and notifications.
	SignField = "sign"
	// SignTypeField carries the digest algorithm tag.
	SignTypeField = "sign_type"
	// SignTypeMD5 is the only algorithm the provider supports.
	SignTypeMD5 = "MD5"
)

// Canonicalize serializes fields into the provider's digest input: empty
// values and the digest fields are dropped, keys are sorted byte-wise and
// joined as key=value pairs with '&'.
func Canonicalize(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" || k == SignField || k == SignTypeField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

// Sign returns the lowercase hex MD5 of canonical with the secret appended.
// The provider computes exactly md5(canonical + key); this is not an HMAC.
func Sign(canonical, secret string) string {
	sum := md5.Sum([]byte(canonical + secret))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest over fields and compares it byte-for-byte
// with candidate. A missing candidate or secret never verifies.
func Verify(fields Fields, secret, candidate string) bool {
	if candidate == "" || secret == "" {
		return false
	}
	expected := Sign(Canonicalize(fields), secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}
