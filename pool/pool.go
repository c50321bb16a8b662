// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"

	"github.com/luxfi/csdb/codec"
)

// Errors returned by Decode. A caller classifying these for the store's
// Corrupt error taxonomy (§7) can treat all of them identically: the
// persisted record did not parse as a well-formed pool.
var (
	ErrHeaderDecode      = errors.New("pool: header decode failed")
	ErrBodySize          = errors.New("pool: transaction block size is not a multiple of the record size")
	ErrCountMismatch     = errors.New("pool: header transaction_count disagrees with the persisted block")
	ErrTransactionDecode = errors.New("pool: transaction decode failed")
)

// Pool is a header plus its ordered transactions, exactly as persisted
// under its hash key in the main store (§3, §4.A).
type Pool struct {
	Header       Header
	Transactions []Transaction
}

// Encode returns the bit-exact wire form: header followed by each
// transaction's fixed 808-byte record, in order.
func (p Pool) Encode() []byte {
	w := codec.NewWriter()
	p.Header.EncodeInto(w)
	for _, tx := range p.Transactions {
		w.PutRaw(tx.Encode())
	}
	return w.Bytes()
}

// Decode parses a persisted pool record. It validates that the trailing
// transaction block is an exact multiple of TransactionSize and that the
// record count agrees with the header's transaction_count (§4.D).
func Decode(b []byte) (Pool, error) {
	r := codec.NewReader(b)

	h, ok := DecodeHeader(r)
	if !ok {
		return Pool{}, ErrHeaderDecode
	}

	rest := b[r.Pos():]
	if len(rest)%TransactionSize != 0 {
		return Pool{}, ErrBodySize
	}
	count := len(rest) / TransactionSize
	if uint64(count) != h.TransactionCount {
		return Pool{}, ErrCountMismatch
	}

	txs := make([]Transaction, count)
	for i := 0; i < count; i++ {
		tx, ok := DecodeTransaction(rest[i*TransactionSize : (i+1)*TransactionSize])
		if !ok {
			return Pool{}, ErrTransactionDecode
		}
		txs[i] = tx
	}

	return Pool{Header: h, Transactions: txs}, nil
}
