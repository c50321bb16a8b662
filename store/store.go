// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/csdb/amount"
	"github.com/luxfi/csdb/chain"
	"github.com/luxfi/csdb/config"
	"github.com/luxfi/csdb/kv"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/metrics"
	"github.com/luxfi/csdb/pool"
)

// Store is the public surface of §4.G / §6: init/done lifecycle plus
// SetTransActions, GetPool, GetBalance, GetTransactions,
// GetTransactionInfo, GetHeadHash, hasAnyPools.
type Store struct {
	opts   config.Options
	logger logging.Logger
	m      *metrics.Metrics

	mainDB    kv.Store
	balanceDB kv.Store

	pools    *PoolStore
	balances *BalanceStore
}

// Open is init(path) (§4.F): it resolves configuration, opens the main
// and balance stores, destroys and recreates the balance store (it is a
// pure derived index), and runs the startup scan. A non-nil reg
// registers the store's Prometheus instruments; pass nil to skip.
func Open(basePath string, reg *prometheus.Registry) (*Store, error) {
	opts, err := config.Load(basePath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:    opts.LogLevel,
		JSON:     opts.LogJSON,
		FilePath: opts.LogFilePath,
	})
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)

	if err := kv.Destroy(opts.DBType, basePath, opts.BalanceDirName); err != nil {
		return nil, fmt.Errorf("%w: clearing balance store: %v", ErrStorageError, err)
	}

	mainDB, err := kv.Open(opts.DBType, basePath, opts.MainDirName, "csdb_main", reg, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("%w: opening main store: %v", ErrStorageError, err)
	}
	balanceDB, err := kv.Open(opts.DBType, basePath, opts.BalanceDirName, "csdb_balance", reg, logger.Logger)
	if err != nil {
		_ = mainDB.Close()
		return nil, fmt.Errorf("%w: opening balance store: %v", ErrStorageError, err)
	}

	pools := NewPoolStore(mainDB, 32<<20, m, logger)
	balances, err := NewBalanceStore(balanceDB, 4096, m, logger)
	if err != nil {
		_ = mainDB.Close()
		_ = balanceDB.Close()
		return nil, err
	}

	tracker := chain.NewTracker(0)
	result, err := scan(pools, balances, tracker, m, logger)
	if err != nil {
		_ = mainDB.Close()
		_ = balanceDB.Close()
		return nil, err
	}
	logger.Info("startup scan complete",
		"scanned", result.PoolsScanned,
		"skipped", result.PoolsSkipped,
		"chainLength", result.ChainLength,
	)

	return &Store{
		opts:      opts,
		logger:    logger,
		m:         m,
		mainDB:    mainDB,
		balanceDB: balanceDB,
		pools:     pools,
		balances:  balances,
	}, nil
}

// Close is done(): it releases both underlying KV handles. Calling it
// again, or on a Store with no open handles, is a no-op.
func (s *Store) Close() error {
	if s == nil || s.mainDB == nil {
		return nil
	}
	mainErr := s.mainDB.Close()
	balErr := s.balanceDB.Close()
	s.mainDB, s.balanceDB = nil, nil
	if mainErr != nil {
		return mainErr
	}
	return balErr
}

// SetTransActions writes a new pool and applies its transactions to the
// balance index (§4.D).
func (s *Store) SetTransActions(poolHash, prevHash []byte, txs []pool.Transaction, timestamp, sequence uint64) error {
	if err := s.pools.SetTransActions(poolHash, prevHash, txs, timestamp, sequence); err != nil {
		return err
	}
	if len(txs) > 0 {
		if err := s.balances.UpdateBalances(txs); err != nil {
			// Balance-update failure does not fail the write (§4.D step
			// 7, §9): the pool is already durable.
			s.logger.Error("balance update failed after pool write",
				"hash", fmt.Sprintf("%x", poolHash), "err", err)
			if s.m != nil {
				s.m.BalanceUpdateFail.Inc()
			}
		}
	}
	return nil
}

// GetPool returns the pool stored at hash, or the most recently written
// pool if hash is nil.
func (s *Store) GetPool(hash []byte) (pool.Pool, []byte, error) {
	return s.pools.GetPool(hash)
}

// GetBalance returns account's balance in currency (zero if absent).
func (s *Store) GetBalance(account, currency string) (amount.Amount, error) {
	return s.balances.GetBalance(account, currency)
}

// HasAnyPools reports whether the main store holds at least one pool.
func (s *Store) HasAnyPools(ctx context.Context) (bool, error) {
	return s.pools.HasAnyPools(ctx)
}

// GetHeadHash returns a copy of current_head_hash, or nil if the store
// is empty.
func (s *Store) GetHeadHash() []byte {
	return s.pools.HeadHash()
}
