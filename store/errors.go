// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store ties the codec, fixed-point amount, pool record, and
// chain-topology packages together into the pool storage engine,
// balance index, startup scanner, and query surface of §2 components
// D through G.
package store

import "errors"

// The error taxonomy of §7. Call sites wrap one of these with
// fmt.Errorf("%w: ...", errSentinel, detail) so callers can classify a
// failure with errors.Is while still getting a specific message.
var (
	// ErrInvalidArgument is returned for an empty pool hash on write, or
	// a nil hash to GetPool when no pool has been written since the store
	// was opened.
	ErrInvalidArgument = errors.New("store: invalid argument")

	// ErrAlreadyExists is returned when SetTransActions targets a hash
	// that is already present — pools are immutable.
	ErrAlreadyExists = errors.New("store: pool already exists")

	// ErrNotFound is returned when a requested pool, transaction, or
	// account is absent.
	ErrNotFound = errors.New("store: not found")

	// ErrCorrupt is returned when a persisted record fails to decode:
	// header decode failure, mis-sized transaction block, transaction
	// count mismatch, or balance record decode failure.
	ErrCorrupt = errors.New("store: corrupt record")

	// ErrChainBroken is returned when, after the startup scan, the
	// tracked topology does not resolve to exactly one terminal head.
	ErrChainBroken = errors.New("store: chain broken")

	// ErrStorageError wraps a non-NotFound failure from the underlying
	// key-value collaborator.
	ErrStorageError = errors.New("store: storage error")

	// ErrAlreadyInitialized names the "already initialized" failure of the
	// §7 taxonomy. Open does not return it: each Open call builds an
	// independent Store, so there is no shared instance to initialize
	// twice.
	ErrAlreadyInitialized = errors.New("store: already initialized")
)
