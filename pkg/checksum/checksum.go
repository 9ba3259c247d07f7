// Package checksum produces stable content hashes of raw upstream payloads.
// Hashes gate upserts: an unchanged payload means no field writes beyond the
// sync timestamp.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Sum returns the MD5 hex digest of the canonical JSON encoding of v.
// encoding/json writes map keys in sorted order, so any value built from
// maps and slices hashes identically regardless of the order the upstream
// emitted its keys in.
func Sum(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("checksum: marshal: %w", err)
	}
	digest := md5.Sum(data)
	return hex.EncodeToString(digest[:]), nil
}

// SumRaw canonicalizes raw JSON bytes (decoding into untyped maps fixes the
// key order) and hashes the result.
func SumRaw(raw []byte) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("checksum: decode: %w", err)
	}
	return Sum(v)
}
