// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/luxfi/csdb/hexutil"
	"github.com/luxfi/csdb/pool"
)

// GetTransactions walks the chain backward from the current head,
// collecting transactions that touch addr, with offset/limit pagination
// (§4.G). It returns the matching ids newest-first, plus hasMore.
//
// On any mid-walk pool-decode failure, it returns a cleared result and
// hasMore=false with the corruption error (§7: "mid-walk corruption
// aborts the query with a cleared result").
//
// The reverse walk guards against cycles with a visited-hash set (the
// browser-side walker in the source does this; the startup scanner's
// equivalent guard lives in the chain package) so a corrupted or
// maliciously-looping prev_pool_hash chain cannot spin forever.
func (s *Store) GetTransactions(addr string, limit, offset uint64) ([]string, bool, error) {
	if limit == 0 {
		return nil, false, nil
	}
	if s.opts.MaxTransactionLimit > 0 && limit > s.opts.MaxTransactionLimit {
		limit = s.opts.MaxTransactionLimit
	}

	var ids []string
	var index uint64
	visited := mapset.NewThreadUnsafeSet[string]()

	cur := s.pools.HeadHash()
	for len(cur) > 0 {
		key := string(cur)
		if visited.Contains(key) {
			s.logger.Error("cycle detected walking chain", "hash", hexutil.ToHex(cur))
			return nil, false, fmt.Errorf("store: cycle detected walking chain from %s", hexutil.ToHex(cur))
		}
		visited.Add(key)

		rec, hash, err := s.pools.GetPool(cur)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				break
			}
			s.logger.Error("mid-walk pool lookup failed", "hash", hexutil.ToHex(cur), "err", err)
			return nil, false, err
		}

		for i := len(rec.Transactions) - 1; i >= 0; i-- {
			tx := rec.Transactions[i]
			if tx.ASource != addr && tx.ATarget != addr {
				continue
			}
			if index >= offset+limit {
				if s.m != nil {
					s.m.QueryPages.Inc()
				}
				return ids, true, nil
			}
			if index >= offset {
				ids = append(ids, fmt.Sprintf("%s.%d", hexutil.ToHex(hash), i+1))
				if s.m != nil {
					s.m.QueryMatches.Inc()
				}
			}
			index++
		}

		cur = rec.Header.PrevPoolHash
	}

	if s.m != nil {
		s.m.QueryPages.Inc()
	}
	return ids, false, nil
}

// GetTransactionInfo parses a "<hex>.<decimal>" transaction id (§4.G),
// looks up the owning pool, and returns the referenced transaction.
func (s *Store) GetTransactionInfo(transactionID string) (pool.Transaction, error) {
	dot := strings.IndexByte(transactionID, '.')
	if dot <= 0 || dot == len(transactionID)-1 {
		s.logger.Error("malformed transaction id", "id", transactionID)
		return pool.Transaction{}, fmt.Errorf("%w: malformed transaction id %q", ErrNotFound, transactionID)
	}

	hexPart, decPart := transactionID[:dot], transactionID[dot+1:]
	hash := hexutil.FromHex(hexPart)
	if len(hash) == 0 || 2*len(hash) != dot {
		s.logger.Error("malformed hash in transaction id", "id", transactionID)
		return pool.Transaction{}, fmt.Errorf("%w: malformed hash in transaction id %q", ErrNotFound, transactionID)
	}

	oneBased, err := strconv.ParseUint(decPart, 10, 64)
	if err != nil || oneBased == 0 {
		s.logger.Error("malformed index in transaction id", "id", transactionID, "hash", hexPart)
		return pool.Transaction{}, fmt.Errorf("%w: malformed index in transaction id %q", ErrNotFound, transactionID)
	}

	rec, _, err := s.pools.GetPool(hash)
	if err != nil {
		s.logger.Error("transaction id lookup failed", "hash", hexPart, "err", err)
		return pool.Transaction{}, err
	}

	index := oneBased - 1
	if index >= uint64(len(rec.Transactions)) {
		s.logger.Error("transaction index out of range", "hash", hexPart, "index", oneBased, "count", len(rec.Transactions))
		return pool.Transaction{}, fmt.Errorf("%w: index %d out of range for pool %s", ErrNotFound, oneBased, hexPart)
	}
	return rec.Transactions[index], nil
}
