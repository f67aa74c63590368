// Package datauri encodes and decodes base64 data: URIs (RFC 2397).
package datauri

import (
	"encoding/base64"
	"errors"
	"strings"
)

const prefix = "data:"

var ErrMalformed = errors.New("datauri: malformed data uri")

func Is(s string) bool {
	return strings.HasPrefix(s, prefix)
}

func Encode(data []byte, contentType string) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return prefix + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode returns the payload and media type. Only base64 payloads are accepted.
func Decode(uri string) ([]byte, string, error) {
	if !Is(uri) {
		return nil, "", ErrMalformed
	}
	meta, payload, ok := strings.Cut(uri[len(prefix):], ",")
	if !ok {
		return nil, "", ErrMalformed
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.Join(ErrMalformed, err)
	}
	return data, contentType, nil
}
