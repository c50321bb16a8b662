// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain implements the incremental chain topology tracker of
// §4.C: given an unordered stream of (child, parent) pool-hash edges, it
// maintains the set of connected sub-chains, their lengths, and their
// heads and tails, so that after every edge the invariants of §3 hold
// and, once the full set is known, the unique terminal head can be
// recovered.
package chain

import (
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/bloomfilter/v2"
)

// ErrCycle is returned by Update in two situations, both §9's
// acknowledged gap ("the tails map can be overwritten when an identical
// parent hash is referenced by two different sub-chains"): the same
// child hash presented twice (a duplicate record), or — the more
// important case — two distinct pools naming the same prev_pool_hash, a
// real fork that would otherwise silently overwrite Tails[parent] and
// orphan one of the two sub-chains. This tracker closes both by
// rejecting the offending edge instead of overwriting.
var ErrCycle = errors.New("chain: cycle or duplicate edge detected")

// ErrChainBroken is returned by TerminalHead when the tracked topology
// does not have exactly one terminal head.
var ErrChainBroken = errors.New("chain: zero or multiple terminal heads")

// HeadInfo describes one entry of the heads index (§3): Len is the
// number of pools in the sub-chain whose youngest pool is this head, and
// Next is the prev_pool_hash of that sub-chain's oldest pool — the
// parent it is still waiting to be joined to — or empty once the
// sub-chain reaches a chain root.
type HeadInfo struct {
	Len  int
	Next string
}

// Tracker holds the heads/tails indices plus cycle-detection state.
// It is not safe for concurrent use; callers serialize calls to Update
// themselves (the startup scan is single-threaded, per §5).
type Tracker struct {
	Heads map[string]HeadInfo
	Tails map[string]string

	seen   mapset.Set[string]
	filter *bloomfilter.Filter
}

// NewTracker returns an empty Tracker sized for roughly n expected pools.
// n is advisory: a zero or small n still produces a correct, just less
// efficient, bloom pre-filter.
func NewTracker(n uint64) *Tracker {
	if n < 1024 {
		n = 1024
	}
	filter, err := bloomfilter.NewOptimal(n, 0.001)
	if err != nil {
		// NewOptimal only fails on a degenerate (m=0 or k=0) request,
		// which the floor above rules out.
		panic(err)
	}
	return &Tracker{
		Heads:  make(map[string]HeadInfo),
		Tails:  make(map[string]string),
		seen:   mapset.NewThreadUnsafeSet[string](),
		filter: filter,
	}
}

func fnvOf(s string) hash.Hash64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h
}

// assignTail records that parent (a prev_pool_hash) is the attachment
// point for head's sub-chain, detecting the real §9 gap: parent already
// recorded as the tail-parent of some other, unrelated head means two
// distinct pools in the store name the same prev_pool_hash — a fork,
// not a literal duplicate hash. replacing names the one head (if any)
// this call is entitled to supersede: Case 1/2 legitimately re-point an
// existing tail from the sub-chain head they are consuming (prev) to
// the new combined/extended head, which is not a conflict.
func (t *Tracker) assignTail(parent, head, replacing string) error {
	if parent == "" {
		return nil
	}
	if existing, ok := t.Tails[parent]; ok && existing != head && existing != replacing {
		return fmt.Errorf("%w: parent %s already chains to head %s, cannot also attach %s",
			ErrCycle, parent, existing, head)
	}
	t.Tails[parent] = head
	return nil
}

// Update folds one (cur, prev) edge into the topology, per the four
// exhaustive cases of §4.C. cur is the child pool's hash; prev is its
// prev_pool_hash (empty for a chain root).
func (t *Tracker) Update(cur, prev string) error {
	if t.filter.Contains(fnvOf(cur)) && t.seen.Contains(cur) {
		return fmt.Errorf("%w: duplicate pool hash %s", ErrCycle, cur)
	}
	t.seen.Add(cur)
	t.filter.Add(fnvOf(cur))

	_, eith := t.Heads[prev]
	_, eitt := t.Tails[cur]

	switch {
	case eith && eitt:
		// Case 1: cur stacks on top of the older sub-chain headed by prev
		// ("upper" below) and is the parent the younger sub-chain tailed
		// by cur (headed by hLower) was waiting for; both merge under
		// hLower.
		hLower := t.Tails[cur]
		upper := t.Heads[prev]
		if err := t.assignTail(upper.Next, hLower, prev); err != nil {
			return err
		}
		merged := t.Heads[hLower]
		merged.Next = upper.Next
		merged.Len += 1 + upper.Len
		t.Heads[hLower] = merged
		delete(t.Heads, prev)
		delete(t.Tails, cur)

	case eith:
		// Case 2: cur stacks a new younger pool on top of the sub-chain
		// whose head was prev.
		upper := t.Heads[prev]
		if err := t.assignTail(upper.Next, cur, prev); err != nil {
			return err
		}
		t.Heads[cur] = HeadInfo{Len: upper.Len + 1, Next: upper.Next}
		delete(t.Heads, prev)

	case eitt:
		// Case 3: cur extends the bottom of the sub-chain tailed by cur,
		// attaching the parent link prev.
		h := t.Tails[cur]
		if err := t.assignTail(prev, h, ""); err != nil {
			return err
		}
		info := t.Heads[h]
		info.Next = prev
		info.Len++
		t.Heads[h] = info
		delete(t.Tails, cur)

	default:
		// Case 4: isolated new pool.
		if err := t.assignTail(prev, cur, ""); err != nil {
			return err
		}
		t.Heads[cur] = HeadInfo{Len: 1, Next: prev}
	}

	return nil
}

// TerminalHead returns the unique head H with Heads[H].Next empty. Zero
// or multiple such heads means the tracked set is not a single healthy
// chain (§4.C, §7 ChainBroken); the returned error names the terminal
// heads found and how many heads are tracked in total.
func (t *Tracker) TerminalHead() (string, error) {
	var terminal []string
	for h := range t.Heads {
		if t.Heads[h].Next == "" {
			terminal = append(terminal, h)
		}
	}
	if len(terminal) == 1 {
		return terminal[0], nil
	}
	sort.Strings(terminal)
	return "", fmt.Errorf("%w: found %d terminal heads %v among %d tracked heads",
		ErrChainBroken, len(terminal), terminal, len(t.Heads))
}
