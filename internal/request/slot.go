// Package request tracks the lifecycle of every asynchronous operation:
// idle -> loading -> succeeded | failed, re-entering loading on each call.
package request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	util "github.com/saulo-duarte/mockprep/internal/utils"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Policy decides what happens when calls on the same slot overlap.
type Policy int

const (
	// LastResolvedWins applies every response in the order it resolves.
	LastResolvedWins Policy = iota
	// LatestDispatchWins drops responses from calls that were superseded
	// by a newer dispatch on the same slot.
	LatestDispatchWins
)

func ParsePolicy(s string) Policy {
	switch s {
	case "latest-dispatch", "latest_dispatch", "fenced":
		return LatestDispatchWins
	default:
		return LastResolvedWins
	}
}

var ErrSuperseded = fmt.Errorf("%w: response superseded by a newer request", util.ErrConflict)

type State struct {
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Slot struct {
	name   string
	policy Policy

	mu    sync.Mutex
	state State
	seq   uint64
	// floor is the last ticket issued before a reset; nothing at or below
	// it may settle.
	floor uint64
}

func NewSlot(name string, policy Policy) *Slot {
	return &Slot{
		name:   name,
		policy: policy,
		state:  State{Status: StatusIdle},
	}
}

func (s *Slot) Name() string {
	return s.name
}

func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves the slot to loading, clears the previous error and returns
// the ticket identifying this dispatch.
func (s *Slot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = State{Status: StatusLoading, UpdatedAt: time.Now()}
	return s.seq
}

// reset returns the slot to idle and fences off every dispatch still in
// flight.
func (s *Slot) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floor = s.seq
	s.state = State{Status: StatusIdle}
}

// Settle records the outcome of the dispatch identified by ticket and runs
// apply under the slot lock, so store updates land in the same order as
// the state transitions. It reports false if the outcome was discarded.
func (s *Slot) Settle(ticket uint64, err error, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket <= s.floor {
		return false
	}
	if s.policy == LatestDispatchWins && ticket != s.seq {
		return false
	}

	if err != nil {
		s.state = State{Status: StatusFailed, Error: err.Error(), UpdatedAt: time.Now()}
	} else {
		s.state = State{Status: StatusSucceeded, UpdatedAt: time.Now()}
	}
	if apply != nil {
		apply()
	}
	return true
}

// Run drives one invocation through the slot. onSuccess receives the
// payload; onFailure runs on error and is where list fetches clear their
// collection. Either callback may be nil.
func Run[T any](
	ctx context.Context,
	slot *Slot,
	call func(context.Context) (T, error),
	onSuccess func(T),
	onFailure func(error),
) (T, error) {
	ticket := slot.Begin()

	res, err := call(ctx)
	if err != nil {
		var zero T
		var apply func()
		if onFailure != nil {
			apply = func() { onFailure(err) }
		}
		slot.Settle(ticket, err, apply)
		return zero, err
	}

	var apply func()
	if onSuccess != nil {
		apply = func() { onSuccess(res) }
	}
	if !slot.Settle(ticket, nil, apply) {
		return res, ErrSuperseded
	}
	return res, nil
}

func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
