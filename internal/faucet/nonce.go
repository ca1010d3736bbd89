package faucet

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/chain"
)

// nonceTracker hands out the wallet's next nonce. It is only touched while
// holding the submission slot and therefore needs no lock of its own.
//
// The tracker syncs from the node's pending nonce on first use and after
// every invalidation, and only advances for transactions the node accepted.
type nonceTracker struct {
	backend chain.Backend
	account common.Address

	next   uint64
	synced bool
}

func newNonceTracker(backend chain.Backend, account common.Address) *nonceTracker {
	return &nonceTracker{
		backend: backend,
		account: account,
	}
}

func (n *nonceTracker) Next(ctx context.Context) (uint64, error) {
	if n.synced {
		return n.next, nil
	}

	pending, err := n.backend.PendingNonceAt(ctx, n.account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	n.next = pending
	n.synced = true

	return n.next, nil
}

// Advance records that a transaction with nonce used was accepted.
func (n *nonceTracker) Advance(used uint64) {
	n.next = used + 1
}

// Invalidate forces a re-sync from the node on the next call to Next.
func (n *nonceTracker) Invalidate() {
	n.synced = false
}
