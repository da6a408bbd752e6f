// Package core holds the pure decision logic: frozen-state evaluation,
// event admission, and admin succession. Everything here is a function of
// its inputs; the host owns snapshots, persistence and per-room ordering.
package core

import "github.com/matrix-org/synapse-freeze-room/internal/domain"

// Deny reasons surfaced to the host.
const (
	ReasonRoomFrozen        = "room-frozen"
	ReasonBlacklistedServer = "blacklisted-server"
)

// Decision is the outcome of a single admission check. FollowUps are state
// events the host must apply, in order, after admitting the checked event.
type Decision struct {
	Allowed   bool
	Reason    string
	FollowUps []*domain.Event
}

// Allow admits the event with no side effects.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny rejects the event with a host-visible reason.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// AllowWithFollowUps admits the event and instructs the host to apply the
// given state events afterwards.
func AllowWithFollowUps(events ...*domain.Event) Decision {
	return Decision{Allowed: true, FollowUps: events}
}

// Denied reports whether the event was rejected.
func (d Decision) Denied() bool { return !d.Allowed }
