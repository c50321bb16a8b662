// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/luxfi/csdb/hexutil"
	"github.com/luxfi/csdb/kv"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/metrics"
	"github.com/luxfi/csdb/pool"
)

// PoolStore is the main store collaborator (§4.D): pools keyed by hash,
// fronted by a raw-record fastcache the way the teacher's customrawdb
// layer fronts frequently-read records, plus the last-save-hash and
// current-head-hash global state of §3/§5.
type PoolStore struct {
	kv     kv.Store
	cache  *fastcache.Cache
	m      *metrics.Metrics
	logger logging.Logger

	lastSaveMu sync.RWMutex
	lastSave   string

	headMu sync.RWMutex
	head   string
}

// NewPoolStore wraps kvStore with a cacheBytes-sized raw-record cache.
// A zero logger argument falls back to logging.NoOp(), so callers that
// don't care about diagnostics (most tests) can pass the zero value.
func NewPoolStore(kvStore kv.Store, cacheBytes int, m *metrics.Metrics, logger logging.Logger) *PoolStore {
	if cacheBytes <= 0 {
		cacheBytes = 32 << 20
	}
	if logger.Logger == nil {
		logger = logging.NoOp()
	}
	return &PoolStore{
		kv:     kvStore,
		cache:  fastcache.New(cacheBytes),
		m:      m,
		logger: logger,
	}
}

// SetTransActions writes a new, immutable pool (§4.D write path).
func (p *PoolStore) SetTransActions(poolHash, prevHash []byte, txs []pool.Transaction, timestamp, sequence uint64) error {
	if len(poolHash) == 0 {
		p.logger.Error("rejecting pool write with empty hash")
		return fmt.Errorf("%w: empty pool hash", ErrInvalidArgument)
	}

	if _, err := p.kv.Get(poolHash); err == nil {
		p.logger.Error("rejecting pool write: hash already exists", "hash", hexutil.ToHex(poolHash))
		return fmt.Errorf("%w: %x", ErrAlreadyExists, poolHash)
	} else if !errors.Is(err, kv.ErrNotFound) {
		p.logger.Error("storage error checking for existing pool", "hash", hexutil.ToHex(poolHash), "err", err)
		return fmt.Errorf("%w: checking existing pool: %v", ErrStorageError, err)
	}

	rec := pool.Pool{
		Header: pool.Header{
			PrevPoolHash:     prevHash,
			Time:             timestamp,
			Sequence:         sequence,
			TransactionCount: uint64(len(txs)),
		},
		Transactions: txs,
	}
	encoded := rec.Encode()

	if err := p.kv.Put(poolHash, encoded); err != nil {
		p.logger.Error("storage error writing pool", "hash", hexutil.ToHex(poolHash), "err", err)
		return fmt.Errorf("%w: writing pool: %v", ErrStorageError, err)
	}
	p.cache.Set(poolHash, encoded)
	if p.m != nil {
		p.m.PoolsWritten.Inc()
	}

	p.setLastSave(poolHash)

	// Only this fast-path advances the head; an out-of-order insert whose
	// parent is an older tail does not trigger a recomputation — a full
	// rebuild happens at next init (§9).
	p.headMu.Lock()
	if p.head == string(prevHash) {
		p.head = string(poolHash)
		if p.m != nil {
			p.m.ChainLength.Inc()
		}
	}
	p.headMu.Unlock()

	return nil
}

// GetPool looks up a pool by hash. A nil hash means "the most recently
// written pool" (last_save_hash); that is ErrInvalidArgument if nothing
// has been written through this PoolStore yet — the startup scan does not
// set last_save_hash (§4.D, §9 — the source aborts here, this store
// surfaces the error instead).
func (p *PoolStore) GetPool(hash []byte) (pool.Pool, []byte, error) {
	if hash == nil {
		p.lastSaveMu.RLock()
		last := p.lastSave
		p.lastSaveMu.RUnlock()
		if last == "" {
			p.logger.Error("GetPool(nil) called with no pool ever written")
			return pool.Pool{}, nil, fmt.Errorf("%w: no pool has been written yet", ErrInvalidArgument)
		}
		hash = []byte(last)
	}

	raw, ok := p.cache.HasGet(nil, hash)
	if !ok {
		var err error
		raw, err = p.kv.Get(hash)
		if errors.Is(err, kv.ErrNotFound) {
			p.logger.Error("pool not found", "hash", hexutil.ToHex(hash))
			return pool.Pool{}, nil, fmt.Errorf("%w: %x", ErrNotFound, hash)
		}
		if err != nil {
			p.logger.Error("storage error reading pool", "hash", hexutil.ToHex(hash), "err", err)
			return pool.Pool{}, nil, fmt.Errorf("%w: reading pool %x: %v", ErrStorageError, hash, err)
		}
		p.cache.Set(hash, raw)
	}

	rec, err := pool.Decode(raw)
	if err != nil {
		p.logger.Error("corrupt pool record", "hash", hexutil.ToHex(hash), "err", err)
		return pool.Pool{}, nil, fmt.Errorf("%w: pool %x: %v", ErrCorrupt, hash, err)
	}
	return rec, hash, nil
}

// HasAnyPools reports whether the main store has at least one entry.
func (p *PoolStore) HasAnyPools(ctx context.Context) (bool, error) {
	has, err := kv.HasAny(ctx, p.kv)
	if err != nil {
		p.logger.Error("storage error checking for any pools", "err", err)
		return false, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return has, nil
}

// HeadHash returns a copy of current_head_hash.
func (p *PoolStore) HeadHash() []byte {
	p.headMu.RLock()
	defer p.headMu.RUnlock()
	if p.head == "" {
		return nil
	}
	return []byte(p.head)
}

// SeedHeadHash sets current_head_hash directly. It is only meant to be
// called once, by the startup scanner, after the topology scan resolves
// the unique terminal head — it is not the compare-and-swap of step 6.
func (p *PoolStore) SeedHeadHash(hash []byte) {
	p.headMu.Lock()
	p.head = string(hash)
	p.headMu.Unlock()
}

func (p *PoolStore) setLastSave(hash []byte) {
	p.lastSaveMu.Lock()
	p.lastSave = string(hash)
	p.lastSaveMu.Unlock()
}
