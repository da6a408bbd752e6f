package core

import (
	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

// Admission decides whether a candidate event may enter a room given its
// current state. Stateless between calls.
type Admission struct {
	opts      Options
	blacklist map[string]struct{}
}

// NewAdmission builds an admission controller from validated options.
func NewAdmission(opts Options) *Admission {
	bl := make(map[string]struct{}, len(opts.UnfreezeBlacklist))
	for _, server := range opts.UnfreezeBlacklist {
		bl[server] = struct{}{}
	}
	return &Admission{opts: opts, blacklist: bl}
}

// CanSendEvent checks a candidate event against the room's frozen state.
// Rule order matters: an unfrozen room imposes no restrictions at all, and
// the per-rule exemptions below only apply once the room is frozen.
func (a *Admission) CanSendEvent(ev *domain.Event, state domain.StateMap) Decision {
	if !IsFrozen(state) {
		return Allow()
	}

	// A member may always leave a frozen room. Kicks don't qualify: the
	// sender has to be the target.
	if ev.Type == domain.EventTypeMember && ev.IsState() &&
		string(ev.Sender) == *ev.StateKey && ev.Membership() == domain.MembershipLeave {
		return Allow()
	}

	if ev.Type == domain.EventTypeFrozen && ev.IsState() && *ev.StateKey == "" {
		if frozen, ok := ev.FrozenFlag(); ok {
			return a.onFrozenTransition(ev, state, frozen)
		}
		// Malformed marker content gets no special treatment.
	}

	return Deny(ReasonRoomFrozen)
}

// onFrozenTransition handles a well-formed frozen-marker event sent into a
// frozen room: an idempotent re-freeze, or an unfreeze-and-takeover.
func (a *Admission) onFrozenTransition(ev *domain.Event, state domain.StateMap, frozen bool) Decision {
	if frozen {
		// Re-freeze of an already frozen room; nothing to change.
		return Allow()
	}

	if _, ok := a.blacklist[ev.Sender.ServerName()]; ok {
		return Deny(ReasonBlacklistedServer)
	}

	if !a.isLocal(ev.Sender) {
		// The sender's own homeserver runs its copy of this module and is
		// responsible for the power-level takeover.
		return Allow()
	}

	return AllowWithFollowUps(a.takeoverPowerLevels(ev, state))
}

// takeoverPowerLevels builds the power-levels event that makes the
// unfreezing sender the sole admin: sender raised to the admin level,
// every other admin demoted to the moderator level. Unrelated power-level
// fields are carried through unchanged.
func (a *Admission) takeoverPowerLevels(ev *domain.Event, state domain.StateMap) *domain.Event {
	adminLevel := a.opts.adminLevel()
	moderatorLevel := a.opts.moderatorLevel()

	content := map[string]any{}
	if current := state.Get(domain.EventTypePowerLevels, ""); current != nil {
		content = domain.CloneContent(current.Content)
	}

	users := map[string]any{}
	if pl, ok := domain.ParsePowerLevels(content); ok {
		for user, level := range pl.Users {
			if level >= adminLevel {
				level = moderatorLevel
			}
			users[string(user)] = level
		}
		if pl.UsersDefault >= adminLevel {
			content["users_default"] = moderatorLevel
		}
	}
	users[string(ev.Sender)] = adminLevel
	content["users"] = users

	return domain.NewStateEvent(ev.RoomID, domain.EventTypePowerLevels, "", ev.Sender, content)
}

func (a *Admission) isLocal(user domain.UserID) bool {
	return a.opts.ServerName == "" || user.ServerName() == a.opts.ServerName
}
