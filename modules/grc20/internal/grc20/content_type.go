package grc20

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeTextPlain = "text/plain"
)

// ParseContentType decodes the hex encoded content type stored upstream and strips its parameters.
// If the value is not valid hex of a UTF-8 string, the raw value is used instead.
func ParseContentType(raw string) string {
	contentType := raw
	if decoded, err := hex.DecodeString(raw); err == nil && utf8.Valid(decoded) {
		contentType = string(decoded)
	}
	contentType, _, _ = strings.Cut(contentType, ";")
	return contentType
}

// IsSupportedContentType reports whether an inscription of the content type may carry an operation.
func IsSupportedContentType(contentType string) bool {
	return contentType == ContentTypeJSON || contentType == ContentTypeTextPlain
}
