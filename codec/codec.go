// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec implements the length-prefixed little-endian binary wire
// format (§4.A). It deliberately avoids struct-memory-dump tricks — every
// field is written and read through an explicit, compile-time-sized
// operation, because the 808-byte transaction layout and the PoolHeader
// layout are frozen, cross-tool binary formats (§9) and must stay
// bit-exact across Go versions and architectures.
//
// The shape mirrors the hand-rolled packer the rest of this corpus reaches
// for when it needs a manual binary layout (see
// plugin/evm/atomic/state/atomic_repository.go's use of wrappers.Packer,
// and plugin/evm/customrawdb/accessors_indexes.go's manual key packing),
// adapted into a small self-contained Writer/Reader pair since this
// module has no dependency on the node wire-format package.
package codec

import (
	"encoding/binary"
	"sort"
)

// maxStringLen is the largest byte-string the length prefix can express.
// Longer strings are truncated, per spec §4.A ("fails silently by
// truncation") — callers must ensure hashes and account names fit.
const maxStringLen = 1<<16 - 1

// Writer accumulates an encoded record.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports how many bytes have been written so far.
func (w *Writer) Len() int { return len(w.buf) }

// PutRaw appends b verbatim, with no length prefix.
func (w *Writer) PutRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutUint16 appends v as 2 little-endian bytes.
func (w *Writer) PutUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutUint32 appends v as 4 little-endian bytes.
func (w *Writer) PutUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutInt32 appends v as 4 little-endian bytes (two's complement).
func (w *Writer) PutInt32(v int32) {
	w.PutUint32(uint32(v))
}

// PutUint64 appends v as 8 little-endian bytes.
func (w *Writer) PutUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutString appends a 16-bit length prefix followed by b. If b is longer
// than a 16-bit length can express, it is silently truncated to
// maxStringLen bytes — this is a documented spec behavior, not a bug.
func (w *Writer) PutString(b []byte) {
	if len(b) > maxStringLen {
		b = b[:maxStringLen]
	}
	w.PutUint16(uint16(len(b)))
	w.PutRaw(b)
}

// PutMap appends a 16-bit count followed by each (key, value) pair in
// ascending key order, matching the "natural key order as emitted by the
// underlying ordered container" requirement of §4.A.
func PutMap[T any](w *Writer, m map[string]T, putValue func(*Writer, T)) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w.PutUint16(uint16(len(keys)))
	for _, k := range keys {
		w.PutString([]byte(k))
		putValue(w, m[k])
	}
}

// Reader consumes an encoded record, advancing a cursor as it goes. A
// failed Get* call returns ok=false and leaves the cursor position
// undefined for further reads, per §4.A.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Pos reports the current read cursor.
func (r *Reader) Pos() int { return r.pos }

// GetRaw consumes and returns the next n bytes.
func (r *Reader) GetRaw(n int) ([]byte, bool) {
	if r.Remaining() < n {
		return nil, false
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

// GetUint16 consumes 2 little-endian bytes.
func (r *Reader) GetUint16() (uint16, bool) {
	b, ok := r.GetRaw(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// GetUint32 consumes 4 little-endian bytes.
func (r *Reader) GetUint32() (uint32, bool) {
	b, ok := r.GetRaw(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// GetInt32 consumes 4 little-endian bytes as a signed value.
func (r *Reader) GetInt32() (int32, bool) {
	v, ok := r.GetUint32()
	return int32(v), ok
}

// GetUint64 consumes 8 little-endian bytes.
func (r *Reader) GetUint64() (uint64, bool) {
	b, ok := r.GetRaw(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// GetString consumes a 16-bit length prefix and that many bytes.
func (r *Reader) GetString() ([]byte, bool) {
	n, ok := r.GetUint16()
	if !ok {
		return nil, false
	}
	return r.GetRaw(int(n))
}

// GetMap consumes a 16-bit count followed by that many (key, value) pairs.
func GetMap[T any](r *Reader, getValue func(*Reader) (T, bool)) (map[string]T, bool) {
	count, ok := r.GetUint16()
	if !ok {
		return nil, false
	}
	m := make(map[string]T, count)
	for i := uint16(0); i < count; i++ {
		key, ok := r.GetString()
		if !ok {
			return nil, false
		}
		val, ok := getValue(r)
		if !ok {
			return nil, false
		}
		m[string(key)] = val
	}
	return m, true
}
