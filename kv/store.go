// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kv names the ordered key-value collaborator §6 requires and
// opens it through github.com/luxfi/database, the same store the teacher
// wraps in plugin/evm/database_wrapper.go and opens with
// github.com/luxfi/database/factory in cmd/dbmigrate and
// test-readonly-db.go.
package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/luxfi/database"
	"github.com/luxfi/database/factory"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

// memdbType selects an in-process, non-persistent store, the same escape
// hatch the teacher's own tests use (plugin/evm/atomic/state's
// atomic_repository_test.go, sync/handlers' leafs_request_test.go) to
// avoid a real on-disk engine in unit tests.
const memdbType = "memdb"

// ErrNotFound is returned by Get and surfaced by every read path that
// treats a missing key as "not found" rather than an error (§7).
var ErrNotFound = database.ErrNotFound

// Store is the ordered key-value collaborator: Get/Put/Has/Delete, an
// atomic Batch, and an ordered Iterator. This is exactly
// github.com/luxfi/database.Database's shape; it is named here so the
// rest of this module depends on a local interface instead of the
// third-party package directly.
type Store = database.Database

// Batch is a set of writes applied atomically by Write.
type Batch = database.Batch

// Iterator walks a Store in key order.
type Iterator = database.Iterator

// Open creates-if-missing (or opens) a named on-disk store under
// basePath/subdir, registering its metrics on reg under metricsPrefix.
// dbType is a backend name understood by github.com/luxfi/database/factory
// ("pebbledb", "leveldb", ...).
func Open(dbType, basePath, subdir, metricsPrefix string, reg *prometheus.Registry, logger log.Logger) (Store, error) {
	if dbType == memdbType {
		return memdb.New(), nil
	}
	dir := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return factory.New(dbType, dir, false, nil, reg, logger, metricsPrefix, metricsPrefix+"_meter")
}

// Destroy removes a previously-opened on-disk store entirely. The balance
// store is destroyed and recreated on every init (§4.F) since it is a pure
// derived index. memdb stores have nothing on disk to remove.
func Destroy(dbType, basePath, subdir string) error {
	if dbType == memdbType {
		return nil
	}
	dir := filepath.Join(basePath, subdir)
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// HasAny reports whether store has at least one entry.
func HasAny(ctx context.Context, s Store) (bool, error) {
	iter := s.NewIterator()
	defer iter.Release()
	has := iter.Next()
	return has, iter.Error()
}
