// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements the binary pool and transaction record layout
// of §3/§4.A: a frozen, bit-exact wire format shared with any other tool
// that reads this store directly (the original browser, per §9), encoded
// through explicit byte-level operations rather than a struct memory dump.
package pool

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/luxfi/csdb/codec"
)

const (
	hashFieldSize      = 8
	innerIDSize        = 16
	accountNameSize    = 256
	currencySize       = 256
	amountPadSize      = 4 // aligns Amount1 (u64) to an 8-byte boundary
	TransactionSize    = hashFieldSize + innerIDSize + 2*accountNameSize + 4 + amountPadSize + 8 + currencySize
)

func init() {
	if TransactionSize != 808 {
		panic("pool: TransactionSize invariant broken")
	}
}

// Transaction is the fixed 808-byte on-disk transaction record (§3).
type Transaction struct {
	Hash     uint64
	InnerID  uuid.UUID
	ASource  string
	ATarget  string
	Amount   uint32
	Amount1  uint64
	Currency string
}

// InnerIDString renders InnerID the way uuid_to_string does (§6).
func (t Transaction) InnerIDString() string {
	return t.InnerID.String()
}

// Encode returns the bit-exact 808-byte wire form of t.
func (t Transaction) Encode() []byte {
	w := codec.NewWriter()
	w.PutUint64(t.Hash)
	w.PutRaw(t.InnerID[:])
	w.PutRaw(fixedCString(t.ASource, accountNameSize))
	w.PutRaw(fixedCString(t.ATarget, accountNameSize))
	w.PutUint32(t.Amount)
	w.PutRaw(make([]byte, amountPadSize))
	w.PutUint64(t.Amount1)
	w.PutRaw(fixedCString(t.Currency, currencySize))
	return w.Bytes()
}

// DecodeTransaction decodes exactly one TransactionSize-byte record.
func DecodeTransaction(b []byte) (Transaction, bool) {
	if len(b) != TransactionSize {
		return Transaction{}, false
	}
	r := codec.NewReader(b)

	hash, ok := r.GetUint64()
	if !ok {
		return Transaction{}, false
	}
	innerRaw, ok := r.GetRaw(innerIDSize)
	if !ok {
		return Transaction{}, false
	}
	srcRaw, ok := r.GetRaw(accountNameSize)
	if !ok {
		return Transaction{}, false
	}
	tgtRaw, ok := r.GetRaw(accountNameSize)
	if !ok {
		return Transaction{}, false
	}
	amount, ok := r.GetUint32()
	if !ok {
		return Transaction{}, false
	}
	if _, ok = r.GetRaw(amountPadSize); !ok {
		return Transaction{}, false
	}
	amount1, ok := r.GetUint64()
	if !ok {
		return Transaction{}, false
	}
	curRaw, ok := r.GetRaw(currencySize)
	if !ok {
		return Transaction{}, false
	}

	var inner uuid.UUID
	copy(inner[:], innerRaw)

	return Transaction{
		Hash:     hash,
		InnerID:  inner,
		ASource:  cString(srcRaw),
		ATarget:  cString(tgtRaw),
		Amount:   amount,
		Amount1:  amount1,
		Currency: cString(curRaw),
	}, true
}

// fixedCString NUL-pads (or truncates) s into a size-byte fixed C string.
func fixedCString(s string, size int) []byte {
	b := make([]byte, size)
	copy(b, s)
	return b
}

// cString trims a fixed C string at its first NUL byte.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
