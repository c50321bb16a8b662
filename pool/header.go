// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "github.com/luxfi/csdb/codec"

// Header is the variable-length pool header (§4.A): the previous pool's
// hash (empty for the chain's first pool), a creation timestamp, the
// pool's sequence number, and the number of transactions it carries.
type Header struct {
	PrevPoolHash     []byte
	Time             uint64
	Sequence         uint64
	TransactionCount uint64
}

// EncodeInto appends h's wire form to w.
func (h Header) EncodeInto(w *codec.Writer) {
	w.PutString(h.PrevPoolHash)
	w.PutUint64(h.Time)
	w.PutUint64(h.Sequence)
	w.PutUint64(h.TransactionCount)
}

// Encode returns h's standalone wire form.
func (h Header) Encode() []byte {
	w := codec.NewWriter()
	h.EncodeInto(w)
	return w.Bytes()
}

// DecodeHeader reads a Header from r, leaving r positioned at the first
// byte past the header (the start of the transaction block).
func DecodeHeader(r *codec.Reader) (Header, bool) {
	prev, ok := r.GetString()
	if !ok {
		return Header{}, false
	}
	t, ok := r.GetUint64()
	if !ok {
		return Header{}, false
	}
	seq, ok := r.GetUint64()
	if !ok {
		return Header{}, false
	}
	count, ok := r.GetUint64()
	if !ok {
		return Header{}, false
	}
	return Header{
		PrevPoolHash:     []byte(prev),
		Time:             t,
		Sequence:         seq,
		TransactionCount: count,
	}, true
}
