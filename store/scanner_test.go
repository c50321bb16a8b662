// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/csdb/chain"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/pool"
)

// putRawPool writes a pool record directly, bypassing SetTransActions,
// so these tests exercise the startup scanner's reconstruction (§4.F)
// rather than the live write path's simple head-advance CAS (§4.D step
// 6, which only advances on in-order inserts — see §9).
func putRawPool(t *testing.T, db kvPutter, hash, prev string) {
	t.Helper()
	rec := pool.Pool{Header: pool.Header{PrevPoolHash: []byte(prev)}}
	require.NoError(t, db.Put([]byte(hash), rec.Encode()))
}

type kvPutter interface {
	Put(key, value []byte) error
}

func newScanFixture(t *testing.T) (*PoolStore, *BalanceStore) {
	t.Helper()
	mainDB := memdb.New()
	balanceDB := memdb.New()
	pools := NewPoolStore(mainDB, 0, nil, logging.NoOp())
	balances, err := NewBalanceStore(balanceDB, 0, nil, logging.NoOp())
	require.NoError(t, err)
	return pools, balances
}

func TestScanStraightChainWrittenChildFirst(t *testing.T) {
	pools, balances := newScanFixture(t)
	// hc="01",hp="02"; hc="02",hp="03"; hc="03",hp="" — written in the
	// order the spec's seed scenario literally gives (§8 scenario 1).
	putRawPool(t, pools.kv, "01", "02")
	putRawPool(t, pools.kv, "02", "03")
	putRawPool(t, pools.kv, "03", "")

	result, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.NoError(t, err)
	require.Equal(t, []byte("01"), result.HeadHash)
	require.Equal(t, 3, result.ChainLength)
	require.Equal(t, []byte("01"), pools.HeadHash())
}

func TestScanReverseChain(t *testing.T) {
	pools, balances := newScanFixture(t)
	putRawPool(t, pools.kv, "03", "02")
	putRawPool(t, pools.kv, "02", "01")
	putRawPool(t, pools.kv, "01", "")

	result, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.NoError(t, err)
	require.Equal(t, []byte("03"), result.HeadHash)
	require.Equal(t, 3, result.ChainLength)
}

func TestScanMixedChainOfFive(t *testing.T) {
	pools, balances := newScanFixture(t)
	putRawPool(t, pools.kv, "04", "03")
	putRawPool(t, pools.kv, "03", "05")
	putRawPool(t, pools.kv, "05", "02")
	putRawPool(t, pools.kv, "02", "01")
	putRawPool(t, pools.kv, "01", "")

	result, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.NoError(t, err)
	require.Equal(t, []byte("04"), result.HeadHash)
	require.Equal(t, 5, result.ChainLength)
}

func TestScanEmptyStoreIsHealthy(t *testing.T) {
	pools, balances := newScanFixture(t)
	result, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.NoError(t, err)
	require.Nil(t, result.HeadHash)
	require.Empty(t, pools.HeadHash())
}

func TestScanSkipsCorruptPoolAndContinues(t *testing.T) {
	pools, balances := newScanFixture(t)
	require.NoError(t, pools.kv.Put([]byte("bad"), []byte{0xFF}))
	putRawPool(t, pools.kv, "01", "")

	result, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.NoError(t, err)
	require.Equal(t, 1, result.PoolsScanned)
	require.Equal(t, 1, result.PoolsSkipped)
	require.Equal(t, []byte("01"), result.HeadHash)
}

func TestScanFailsOnMultipleTerminalHeads(t *testing.T) {
	pools, balances := newScanFixture(t)
	putRawPool(t, pools.kv, "a1", "")
	putRawPool(t, pools.kv, "b1", "")

	_, err := scan(pools, balances, chain.NewTracker(0), nil, logging.NoOp())
	require.ErrorIs(t, err, ErrChainBroken)
}
