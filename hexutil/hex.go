// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hexutil implements the hash hex codec used by transaction ids
// and diagnostic logging. It is a hand-rolled codec rather than
// encoding/hex: from_hex must stop at the first non-hex-digit pair and
// return the already-decoded prefix without error (§4.G), a contract the
// standard library's strict DecodeString does not offer.
package hexutil

const table = "0123456789ABCDEF"

// ToHex renders data as uppercase hex, two digits per byte, in byte
// order — so a little-endian uint64 renders high-byte-first of its
// little-endian bytes (§4.G).
func ToHex(data []byte) string {
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = table[b>>4]
		out[i*2+1] = table[b&0x0f]
	}
	return string(out)
}

// FromHex decodes s, accepting uppercase or lowercase digits. It stops
// (successfully, with no error) at the first pair that isn't both valid
// hex digits, returning whatever prefix it managed to decode.
func FromHex(s string) []byte {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		hi, ok1 := digit(s[i])
		lo, ok2 := digit(s[i+1])
		if !ok1 || !ok2 {
			break
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

func digit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
