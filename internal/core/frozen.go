package core

import "github.com/matrix-org/synapse-freeze-room/internal/domain"

// IsFrozen reports whether the room's current state marks it frozen.
// A missing marker, or marker content without a boolean "frozen" field,
// means not frozen; malformed markers are informational, never an error.
func IsFrozen(state domain.StateMap) bool {
	marker := state.FrozenMarker()
	if marker == nil {
		return false
	}
	frozen, ok := marker.FrozenFlag()
	return ok && frozen
}
