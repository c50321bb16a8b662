// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/luxfi/csdb/amount"
	"github.com/luxfi/csdb/codec"
	"github.com/luxfi/csdb/kv"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/metrics"
	"github.com/luxfi/csdb/pool"
)

// CurrencyBalances is one account's per-currency balance map, the
// decoded form of §6's balance record.
type CurrencyBalances map[string]amount.Amount

// BalanceStore is the derived per-account balance index (§4.E): a KV
// store keyed by account name, holding an encoded currency→FixedAmount
// map, fronted by a decoded-value LRU cache the way core/headerchain.go
// fronts header lookups with a generic golang-lru/v2 cache.
type BalanceStore struct {
	kv     kv.Store
	cache  *lru.Cache[string, CurrencyBalances]
	m      *metrics.Metrics
	logger logging.Logger
}

// NewBalanceStore wraps kv with a decoded-balance cache of the given
// size (number of accounts, not bytes). A zero logger argument falls
// back to logging.NoOp().
func NewBalanceStore(kvStore kv.Store, cacheSize int, m *metrics.Metrics, logger logging.Logger) (*BalanceStore, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	if logger.Logger == nil {
		logger = logging.NoOp()
	}
	cache, err := lru.New[string, CurrencyBalances](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: balance cache: %w", err)
	}
	return &BalanceStore{kv: kvStore, cache: cache, m: m, logger: logger}, nil
}

func putAmount(w *codec.Writer, a amount.Amount) {
	w.PutInt32(a.I)
	w.PutUint64(a.F)
}

func getAmount(r *codec.Reader) (amount.Amount, bool) {
	i, ok := r.GetInt32()
	if !ok {
		return amount.Amount{}, false
	}
	f, ok := r.GetUint64()
	if !ok {
		return amount.Amount{}, false
	}
	return amount.Amount{I: i, F: f}, true
}

func encodeBalances(m CurrencyBalances) []byte {
	w := codec.NewWriter()
	codec.PutMap(w, map[string]amount.Amount(m), putAmount)
	return w.Bytes()
}

func decodeBalances(b []byte) (CurrencyBalances, bool) {
	m, ok := codec.GetMap(codec.NewReader(b), getAmount)
	if !ok {
		return nil, false
	}
	return CurrencyBalances(m), true
}

// load returns account's balance map, from cache, store, or (on a
// missing key) a fresh empty map — a miss is not an error (§4.E step 1).
func (b *BalanceStore) load(account string) (CurrencyBalances, error) {
	if cached, ok := b.cache.Get(account); ok {
		return cloneBalances(cached), nil
	}

	raw, err := b.kv.Get([]byte(account))
	if errors.Is(err, kv.ErrNotFound) {
		return CurrencyBalances{}, nil
	}
	if err != nil {
		b.logger.Error("storage error reading balance", "account", account, "err", err)
		return nil, fmt.Errorf("%w: reading balance for %q: %v", ErrStorageError, account, err)
	}

	decoded, ok := decodeBalances(raw)
	if !ok {
		b.logger.Error("corrupt balance record", "account", account)
		return nil, fmt.Errorf("%w: balance record for %q", ErrCorrupt, account)
	}
	b.cache.Add(account, decoded)
	return cloneBalances(decoded), nil
}

func cloneBalances(m CurrencyBalances) CurrencyBalances {
	cp := make(CurrencyBalances, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// UpdateBalances applies txs, in order, to a staging snapshot of every
// account they touch, then writes the whole snapshot atomically (§4.E).
// A decode failure loading any touched account aborts the whole batch;
// partial failure reverts nothing since the triggering pool write is
// already durable (§9 — balance/main desync is an accepted, documented
// gap repaired by the next startup scan).
func (b *BalanceStore) UpdateBalances(txs []pool.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	staging := make(map[string]CurrencyBalances)
	ensure := func(account string) (CurrencyBalances, error) {
		if m, ok := staging[account]; ok {
			return m, nil
		}
		m, err := b.load(account)
		if err != nil {
			return nil, err
		}
		staging[account] = m
		return m, nil
	}

	for _, tx := range txs {
		delta := amount.Amount{I: int32(tx.Amount), F: tx.Amount1}

		src, err := ensure(tx.ASource)
		if err != nil {
			return err
		}
		src[tx.Currency] = amount.Sub(src[tx.Currency], delta)

		tgt, err := ensure(tx.ATarget)
		if err != nil {
			return err
		}
		tgt[tx.Currency] = amount.Add(tgt[tx.Currency], delta)
	}

	batch := b.kv.NewBatch()
	for account, balances := range staging {
		if err := batch.Put([]byte(account), encodeBalances(balances)); err != nil {
			b.logger.Error("storage error staging balance write", "account", account, "err", err)
			return fmt.Errorf("%w: staging balance write for %q: %v", ErrStorageError, account, err)
		}
	}
	if err := batch.Write(); err != nil {
		b.logger.Error("storage error committing balance batch", "err", err)
		return fmt.Errorf("%w: committing balance batch: %v", ErrStorageError, err)
	}

	for account, balances := range staging {
		b.cache.Add(account, balances)
	}
	return nil
}

// GetBalance returns account's balance in currency. A missing account or
// currency entry yields the zero Amount, not an error (§4.E).
func (b *BalanceStore) GetBalance(account, currency string) (amount.Amount, error) {
	m, err := b.load(account)
	if err != nil {
		return amount.Amount{}, err
	}
	return m[currency], nil
}
