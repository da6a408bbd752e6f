package core

import (
	"sort"

	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

// Succession decides what happens to a room after an admin departs: keep
// going, promote a replacement, or freeze.
type Succession struct {
	opts Options
}

// NewSuccession builds a succession planner from validated options.
func NewSuccession(opts Options) *Succession {
	return &Succession{opts: opts}
}

// OnUserDeparted plans the follow-up after a user's membership became
// leave or ban. Returns nil when no action is needed: the departed user
// was not an admin, another admin remains (joined or invited), or the
// power-levels state is unusable.
//
// The joined set and its levels are recomputed from the snapshot on every
// call; no counters are kept, so batched or out-of-order membership
// changes cannot desync the planner.
func (s *Succession) OnUserDeparted(roomID domain.RoomID, state domain.StateMap, departed domain.UserID) *domain.Event {
	pl, ok := state.PowerLevels()
	if !ok {
		return nil
	}
	adminLevel := s.opts.adminLevel()
	if pl.Level(departed) < adminLevel {
		return nil
	}

	if s.hasOtherAdmin(state, pl, departed) {
		return nil
	}

	if s.opts.PromoteModerators {
		if candidate, ok := s.promotionCandidate(state, pl, departed); ok {
			content := domain.CloneContent(state.Get(domain.EventTypePowerLevels, "").Content)
			users, _ := content["users"].(map[string]any)
			if users == nil {
				users = map[string]any{}
			}
			users[string(candidate)] = adminLevel
			content["users"] = users
			return domain.NewStateEvent(roomID, domain.EventTypePowerLevels, "", candidate, content)
		}
	}

	// No admin left and nobody to promote: freeze rather than leave the
	// room ownerless.
	return domain.NewStateEvent(roomID, domain.EventTypeFrozen, "", departed, map[string]any{"frozen": true})
}

// hasOtherAdmin reports whether any user besides the departed one holds
// the admin level and is joined to, or invited to, the room.
func (s *Succession) hasOtherAdmin(state domain.StateMap, pl domain.PowerLevels, departed domain.UserID) bool {
	adminLevel := s.opts.adminLevel()
	for user, level := range pl.Users {
		if user == departed || level < adminLevel {
			continue
		}
		switch state.MembershipOf(user) {
		case domain.MembershipJoin, domain.MembershipInvite:
			return true
		}
	}
	return false
}

// promotionCandidate picks the joined user with the highest power level
// strictly below the admin level. Ties break to the lexically lowest user
// ID so independently computed replicas promote the same user.
func (s *Succession) promotionCandidate(state domain.StateMap, pl domain.PowerLevels, departed domain.UserID) (domain.UserID, bool) {
	adminLevel := s.opts.adminLevel()

	joined := make([]domain.UserID, 0)
	for key, ev := range state {
		if key.Type != domain.EventTypeMember || ev.Membership() != domain.MembershipJoin {
			continue
		}
		user := domain.UserID(key.StateKey)
		if user == departed {
			continue
		}
		if pl.Level(user) >= adminLevel {
			continue
		}
		joined = append(joined, user)
	}
	if len(joined) == 0 {
		return "", false
	}
	sort.Slice(joined, func(i, j int) bool { return joined[i] < joined[j] })

	best := joined[0]
	for _, user := range joined[1:] {
		if pl.Level(user) > pl.Level(best) {
			best = user
		}
	}
	return best, true
}
