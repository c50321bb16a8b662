// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type edge struct{ cur, prev string }

func applyAll(t *testing.T, edges []edge) *Tracker {
	t.Helper()
	tr := NewTracker(0)
	for _, e := range edges {
		require.NoError(t, tr.Update(e.cur, e.prev))
	}
	return tr
}

func requireSingleTerminalHead(t *testing.T, tr *Tracker, wantHead string, wantLen int) {
	t.Helper()
	head, err := tr.TerminalHead()
	require.NoError(t, err)
	require.Equal(t, wantHead, head)
	require.Equal(t, wantLen, tr.Heads[head].Len)
}

func TestStraightChainForwardOrder(t *testing.T) {
	// 01 -> "" , 02 -> 01, 03 -> 02: written oldest first.
	tr := applyAll(t, []edge{
		{"01", ""},
		{"02", "01"},
		{"03", "02"},
	})
	requireSingleTerminalHead(t, tr, "03", 3)
}

func TestReverseChainOrder(t *testing.T) {
	// Same chain, edges folded newest first.
	tr := applyAll(t, []edge{
		{"03", "02"},
		{"02", "01"},
		{"01", ""},
	})
	requireSingleTerminalHead(t, tr, "03", 3)
}

func TestMixedChainOfFive(t *testing.T) {
	tr := applyAll(t, []edge{
		{"04", "03"},
		{"03", "05"},
		{"05", "02"},
		{"02", "01"},
		{"01", ""},
	})
	requireSingleTerminalHead(t, tr, "04", 5)
}

func TestTerminalHeadErrorsOnEmptyTracker(t *testing.T) {
	tr := NewTracker(0)
	_, err := tr.TerminalHead()
	require.ErrorIs(t, err, ErrChainBroken)
}

func TestTerminalHeadErrorsOnMultipleHeads(t *testing.T) {
	tr := applyAll(t, []edge{
		{"a1", ""},
		{"b1", ""},
	})
	_, err := tr.TerminalHead()
	require.ErrorIs(t, err, ErrChainBroken)
}

func TestUpdateRejectsDuplicateChild(t *testing.T) {
	tr := NewTracker(0)
	require.NoError(t, tr.Update("01", ""))
	err := tr.Update("01", "")
	require.ErrorIs(t, err, ErrCycle)
}

// Two distinct pools naming the same prev_pool_hash is a real fork, not
// a literal duplicate hash: "cur" is "X" then "Y", never repeated, so
// only the tail-overwrite guard (not the filter/seen duplicate check)
// can catch it. Both hit Case 4 in isolation.
func TestUpdateRejectsForkWithSameParent(t *testing.T) {
	tr := NewTracker(0)
	require.NoError(t, tr.Update("X", "P"))
	err := tr.Update("Y", "P")
	require.ErrorIs(t, err, ErrCycle)
	// The first branch of the fork must still be intact.
	require.Equal(t, HeadInfo{Len: 1, Next: "P"}, tr.Heads["X"])
}

// The same fork can also surface through Case 3, when the second
// branch reaches the shared parent via an already-known tail instead
// of being isolated itself.
func TestUpdateRejectsForkSurfacedThroughCaseThree(t *testing.T) {
	tr := NewTracker(0)
	require.NoError(t, tr.Update("Z", "Y")) // isolated: Tails["Y"] = "Z"
	require.NoError(t, tr.Update("X", "P")) // isolated: Tails["P"] = "X"

	// "Y" attaches to "P": Tails["Y"] exists (eitt), so this is Case 3,
	// and it tries to set Tails["P"] = "Z" — but Tails["P"] is already
	// "X", a different, unrelated head. Must be rejected, not silently
	// overwritten.
	err := tr.Update("Y", "P")
	require.ErrorIs(t, err, ErrCycle)
}

// Case 1 (both eith and eitt) legitimately re-points an existing tail
// entry from the head it consumes to the new merged head; this must not
// be mistaken for the fork conflict above. Here "B"'s sub-chain already
// has a known successor ("A") before the merge with "C"/"D" happens.
func TestCaseOneMergeRepointsTailWithoutFalseConflict(t *testing.T) {
	tr := applyAll(t, []edge{
		{"B", "A"}, // isolated: Heads["B"]={1,"A"}, Tails["A"]="B"
		{"D", "C"}, // isolated: Heads["D"]={1,"C"}, Tails["C"]="D"
		{"C", "B"}, // Case 1: merges into Heads["D"]={3,"A"}, Tails["A"]="D"
		{"A", ""},  // Case 3: completes the chain
	})
	requireSingleTerminalHead(t, tr, "D", 4)
}

func TestInvariantHeadsNextMatchesTails(t *testing.T) {
	tr := applyAll(t, []edge{
		{"01", ""},
		{"02", "01"},
		{"03", "02"},
	})
	for h, info := range tr.Heads {
		if info.Next != "" {
			require.Equal(t, h, tr.Tails[info.Next])
		}
	}
}
