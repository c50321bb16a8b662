// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"errors"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/csdb/kv"
	"github.com/luxfi/csdb/logging"
	"github.com/luxfi/csdb/pool"
)

// failingStore embeds a real in-memory kv.Store and delegates every
// method to it, except Put and Get, which it can be told to fail. This
// exercises the StorageError path (§7) without hand-authoring a
// complete mock of a third-party interface this module doesn't own.
type failingStore struct {
	kv.Store
	failPut error
	failGet error
}

func (f *failingStore) Put(key, value []byte) error {
	if f.failPut != nil {
		return f.failPut
	}
	return f.Store.Put(key, value)
}

func (f *failingStore) Get(key []byte) ([]byte, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.Store.Get(key)
}

var errBackend = errors.New("backend unavailable")

func TestSetTransActionsPropagatesStorageErrorOnPut(t *testing.T) {
	fs := &failingStore{Store: memdb.New(), failPut: errBackend}
	pools := NewPoolStore(fs, 0, nil, logging.NoOp())

	err := pools.SetTransActions([]byte("01"), nil, nil, 0, 0)
	require.ErrorIs(t, err, ErrStorageError)
}

func TestGetPoolPropagatesStorageErrorOnGet(t *testing.T) {
	fs := &failingStore{Store: memdb.New(), failGet: errBackend}
	pools := NewPoolStore(fs, 0, nil, logging.NoOp())

	_, _, err := pools.GetPool([]byte("01"))
	require.ErrorIs(t, err, ErrStorageError)
}

func TestUpdateBalancesPropagatesStorageErrorOnLoad(t *testing.T) {
	fs := &failingStore{Store: memdb.New(), failGet: errBackend}
	balances, err := NewBalanceStore(fs, 0, nil, logging.NoOp())
	require.NoError(t, err)

	err = balances.UpdateBalances([]pool.Transaction{tx(1, "C1", "C2", 5, 0, "CS")})
	require.ErrorIs(t, err, ErrStorageError)
}
