package faucet

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type reservation struct {
	txHash common.Hash
	amount *big.Int
}

// ledger tracks transfers this process broadcast that may not be reflected in
// the on-chain token balance yet, keyed by nonce.
type ledger struct {
	mu      sync.Mutex
	entries map[uint64]reservation
}

func newLedger() *ledger {
	return &ledger{entries: make(map[uint64]reservation)}
}

func (l *ledger) Add(nonce uint64, txHash common.Hash, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[nonce] = reservation{txHash: txHash, amount: new(big.Int).Set(amount)}
}

// Release drops the reservation for nonce if txHash still owns it.
func (l *ledger) Release(nonce uint64, txHash common.Hash) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.entries[nonce]; ok && r.txHash == txHash {
		delete(l.entries, nonce)
		return true
	}

	return false
}

// Prune drops reservations whose nonce is already mined and returns how many were dropped.
func (l *ledger) Prune(minedNonce uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	pruned := 0
	for nonce := range l.entries {
		if nonce < minedNonce {
			delete(l.entries, nonce)
			pruned++
		}
	}

	return pruned
}

// Reserved sums the amounts of all open reservations.
func (l *ledger) Reserved() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := new(big.Int)
	for _, r := range l.entries {
		total.Add(total, r.amount)
	}

	return total
}

func (l *ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
