package faucet

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// State is the lifecycle position of a single funding request.
type State int

const (
	StateReceived State = iota
	StateValidating
	StateSubmitting
	StateConfirming
	StateSucceeded
	StateFailed
)

var ErrIllegalTransition = errors.New("illegal request state transition")

var stateNames = map[State]string{
	StateReceived:   "received",
	StateValidating: "validating",
	StateSubmitting: "submitting",
	StateConfirming: "confirming",
	StateSucceeded:  "succeeded",
	StateFailed:     "failed",
}

// Submitting may go straight to Succeeded when confirmations are not awaited.
var transitions = map[State][]State{
	StateReceived:   {StateValidating, StateFailed},
	StateValidating: {StateSubmitting, StateFailed},
	StateSubmitting: {StateConfirming, StateSucceeded, StateFailed},
	StateConfirming: {StateSucceeded, StateFailed},
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Request is one funding request. It lives for the duration of a Fund call and is never persisted.
type Request struct {
	Address string
	Amount  *big.Int

	state State
}

func NewRequest(address string, amount *big.Int) *Request {
	return &Request{
		Address: address,
		Amount:  amount,
		state:   StateReceived,
	}
}

func (r *Request) State() State {
	return r.state
}

// Transition moves the request to next or returns ErrIllegalTransition.
func (r *Request) Transition(next State) error {
	if !r.state.CanTransitionTo(next) {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s", r.state, next)
	}
	r.state = next

	return nil
}
