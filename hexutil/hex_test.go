// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hexutil

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHexLittleEndianU64(t *testing.T) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 0x1234567890ABCDEF)
	require.Equal(t, "EFCDAB9078563412", ToHex(buf[:]))
}

func TestToHexLength(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	require.Len(t, ToHex(data), 2*len(data))
}

func TestFromHexRoundTrip(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.Equal(t, data, FromHex(ToHex(data)))
	require.Equal(t, data, FromHex("deadbeef"))
}

func TestFromHexStopsAtFirstInvalidPair(t *testing.T) {
	require.Equal(t, []byte{0xAB}, FromHex("ABzz"))
	require.Equal(t, []byte{}, FromHex("zz"))
	require.Equal(t, []byte{0xAB, 0xCD}, FromHex("ABCD."))
}
