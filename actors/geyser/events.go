package geyser

import (
	"github.com/google/uuid"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/epik-geyser/geyser/actors/ownership"
)

// EventSink is the write-only append interface spec §9 describes: emission
// is fire-and-forget, and failure to emit is not anticipated and is not
// propagated as an operation failure.
type EventSink interface {
	Emit(Event)
}

// Event is the common envelope every emitted event carries, wrapping one of
// the payload types below. ID is a slot for a record ID a downstream consumer
// can dedupe a replayed log by, the way several of the pack's event-sourced
// services key their records (e.g. the retrieved "mezonai-mmn" ledger
// service). The engine emits every event with a zero ID; recordingSink
// assigns a fresh one on Emit.
type Event struct {
	ID      uuid.UUID
	Payload interface{}
}

// Staked corresponds to spec §6's Staked(user, amount, total, data).
type Staked struct {
	User   addr.Address
	Amount big.Int
	Total  big.Int
	Data   []byte
}

// Unstaked corresponds to spec §6's Unstaked(user, amount, total, data).
type Unstaked struct {
	User   addr.Address
	Amount big.Int
	Total  big.Int
	Data   []byte
}

// TokensClaimed corresponds to spec §6's TokensClaimed(user, amount).
type TokensClaimed struct {
	User   addr.Address
	Amount big.Int
}

// TokensLocked corresponds to spec §6's TokensLocked(amount, total, duration_sec).
type TokensLocked struct {
	Amount          big.Int
	TotalLocked     big.Int
	DurationSeconds int64
}

// TokensUnlocked corresponds to spec §6's TokensUnlocked(amount, total).
type TokensUnlocked struct {
	Amount        big.Int
	TotalUnlocked big.Int
}

// OwnershipTransferred re-exports the access-control substrate's event so
// callers only need to type-switch on the geyser package.
type OwnershipTransferred = ownership.OwnershipTransferred

// nopSink discards every event emitted to it; Engine falls back to it when
// constructed without an explicit sink.
type nopSink struct{}

func (nopSink) Emit(Event) {}

// NopEventSink discards everything emitted to it.
var NopEventSink EventSink = nopSink{}

// recordingSink is a tiny in-memory EventSink used by tests to assert on
// what was emitted, mirroring how the teacher's mock runtime records sends.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(e Event) {
	e.ID = uuid.New()
	s.events = append(s.events, e)
}
