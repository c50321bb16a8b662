// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/luxfi/csdb/chain"
	"github.com/luxfi/csdb/hexutil"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/metrics"
	"github.com/luxfi/csdb/pool"
)

// corruptDumpConfig renders just enough of a malformed record to be
// useful in a log line without flooding it with raw transaction bytes.
var corruptDumpConfig = &spew.ConfigState{
	Indent:                  "",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	MaxDepth:                2,
}

// ScanResult summarizes one startup scan (§4.F).
type ScanResult struct {
	PoolsScanned int
	PoolsSkipped int
	HeadHash     []byte
	ChainLength  int
}

// scan iterates the main store in KV order, replaying every well-formed
// pool's transactions into balances and folding its (hash, prev_hash)
// edge into tracker. A corrupt pool is logged and skipped — it remains
// in the store but contributes nothing further (§4.F, §9's deliberate
// scan/write asymmetry). After the scan, exactly one terminal head is
// required; otherwise the scan fails with ErrChainBroken.
func scan(pools *PoolStore, balances *BalanceStore, tracker *chain.Tracker, m *metrics.Metrics, logger logging.Logger) (ScanResult, error) {
	iter := pools.kv.NewIterator()
	defer iter.Release()

	var scanned, skipped int
	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)

		rec, err := pool.Decode(value)
		if err != nil {
			dumpLen := len(value)
			if dumpLen > 64 {
				dumpLen = 64
			}
			logger.Error("skipping corrupt pool during scan",
				"hash", hexutil.ToHex(key),
				"err", err,
				"rawPrefix", corruptDumpConfig.Sdump(value[:dumpLen]),
			)
			skipped++
			if m != nil {
				m.PoolsSkipped.Inc()
			}
			continue
		}

		if len(rec.Transactions) > 0 {
			if err := balances.UpdateBalances(rec.Transactions); err != nil {
				return ScanResult{}, fmt.Errorf("store: replaying balances for pool %s: %w", hexutil.ToHex(key), err)
			}
		}

		if err := tracker.Update(string(key), string(rec.Header.PrevPoolHash)); err != nil {
			return ScanResult{}, fmt.Errorf("%w: %v", ErrChainBroken, err)
		}
		scanned++
	}
	if err := iter.Error(); err != nil {
		return ScanResult{}, fmt.Errorf("%w: scanning main store: %v", ErrStorageError, err)
	}

	if len(tracker.Heads) == 0 {
		// An empty main store (or one where every pool was skipped as
		// corrupt) has no chain at all — current_head_hash stays empty,
		// per §3, rather than failing init.
		pools.SeedHeadHash(nil)
		return ScanResult{PoolsScanned: scanned, PoolsSkipped: skipped}, nil
	}

	head, err := tracker.TerminalHead()
	if err != nil {
		for h, info := range tracker.Heads {
			status := "non-terminal"
			if info.Next == "" {
				status = "terminal"
			}
			logger.Error("chain head after scan", "head", hexutil.ToHex([]byte(h)), "len", info.Len, "status", status)
		}
		for p, h := range tracker.Tails {
			logger.Error("chain tail after scan", "parent", hexutil.ToHex([]byte(p)), "head", hexutil.ToHex([]byte(h)))
		}
		return ScanResult{}, err
	}

	pools.SeedHeadHash([]byte(head))
	chainLen := tracker.Heads[head].Len
	if m != nil {
		m.ChainLength.Set(float64(chainLen))
	}

	return ScanResult{
		PoolsScanned: scanned,
		PoolsSkipped: skipped,
		HeadHash:     []byte(head),
		ChainLength:  chainLen,
	}, nil
}
