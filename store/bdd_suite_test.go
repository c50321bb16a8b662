// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/csdb/amount"
	"github.com/luxfi/csdb/pool"
	"github.com/luxfi/csdb/store"
)

func TestStoreScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "store behavioral scenarios")
}

func newPool(acct1, acct2 string, amt int32, frac uint64, currency string) pool.Transaction {
	return pool.Transaction{
		Hash:     1,
		InnerID:  uuid.New(),
		ASource:  acct1,
		ATarget:  acct2,
		Amount:   uint32(amt),
		Amount1:  frac,
		Currency: currency,
	}
}

var _ = Describe("transaction chain store", func() {
	var s *store.Store

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "csdb-ginkgo-*")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(dir, "csdb.yaml"), []byte("dbtype: memdb\n"), 0o644)).To(Succeed())
		DeferCleanup(func() { _ = os.RemoveAll(dir) })

		s, err = store.Open(dir, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(s.Close()).To(Succeed()) })
	})

	When("the store is empty", func() {
		It("reports no head and no pools", func() {
			Expect(s.GetHeadHash()).To(BeEmpty())
			has, err := s.HasAnyPools(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(has).To(BeFalse())
		})
	})

	When("a single pool moves funds between two accounts in one currency", func() {
		It("conserves the combined balance across the transfer (§8 balance conservation)", func() {
			txs := []pool.Transaction{newPool("alice", "bob", 10, 5e17, "CS")}
			Expect(s.SetTransActions([]byte("p1"), nil, txs, 0, 1)).To(Succeed())

			aliceBal, err := s.GetBalance("alice", "CS")
			Expect(err).NotTo(HaveOccurred())
			bobBal, err := s.GetBalance("bob", "CS")
			Expect(err).NotTo(HaveOccurred())

			total := amount.Add(aliceBal, bobBal)
			Expect(total).To(Equal(amount.Amount{I: 0, F: 0}))
		})
	})

	When("pools chain forward from genesis", func() {
		It("advances the head to the newest pool", func() {
			Expect(s.SetTransActions([]byte("01"), nil, nil, 0, 1)).To(Succeed())
			Expect(s.SetTransActions([]byte("02"), []byte("01"), nil, 0, 2)).To(Succeed())
			Expect(s.GetHeadHash()).To(Equal([]byte("02")))
		})
	})

	When("a transaction id round-trips through GetTransactions and GetTransactionInfo", func() {
		It("resolves back to the same transaction", func() {
			txs := []pool.Transaction{newPool("alice", "bob", 1, 0, "CS")}
			Expect(s.SetTransActions([]byte("p1"), nil, txs, 0, 1)).To(Succeed())

			ids, hasMore, err := s.GetTransactions("alice", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasMore).To(BeFalse())
			Expect(ids).To(HaveLen(1))

			got, err := s.GetTransactionInfo(ids[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ASource).To(Equal("alice"))
		})
	})
})
