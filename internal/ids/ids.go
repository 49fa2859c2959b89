// Package ids implements the wire encoding and content-hashing conventions
// shared by every store: URL-safe base64 identifiers and the SHA-1/SHA-256
// hashes used to key tags and wallet addresses.
package ids

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
)

// Encode renders raw identifier bytes as the network's URL-safe,
// unpadded base64 wire form.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses the URL-safe, unpadded base64 wire form back into raw bytes.
func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

// TagNameHash returns the 20-byte SHA-1 of a tag name's raw bytes.
func TagNameHash(name []byte) []byte {
	h := sha1.Sum(name)
	return h[:]
}

// TagValueHash returns the 20-byte SHA-1 of a tag value's raw bytes.
func TagValueHash(value []byte) []byte {
	h := sha1.Sum(value)
	return h[:]
}

// WalletAddress returns the SHA-256 of an owner's public modulus, the
// network's wallet-address derivation.
func WalletAddress(publicModulus []byte) []byte {
	h := sha256.Sum256(publicModulus)
	return h[:]
}

// EmptyDataItemID is a single-zero-byte data_item_id sentinel for bare
// transactions. The query planner projects a zero-length blob (X'') for
// bare transaction sources instead; IsBareTransaction accepts either.
var EmptyDataItemID = []byte{0x00}

// IsBareTransaction reports whether a projected data_item_id column is the
// bare-transaction sentinel rather than a real data item id.
func IsBareTransaction(dataItemID []byte) bool {
	return len(dataItemID) <= 1
}
