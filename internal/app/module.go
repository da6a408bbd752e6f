// Package app wires the decision components into the host-facing module
// surface and adds structured logging around decisions.
package app

import (
	"github.com/rs/zerolog/log"

	"github.com/matrix-org/synapse-freeze-room/internal/config"
	"github.com/matrix-org/synapse-freeze-room/internal/core"
	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

// Module is the embedded API a host calls before persisting events and
// after membership changes. Stateless between calls; one instance serves
// every room concurrently.
type Module struct {
	admission  *core.Admission
	succession *core.Succession
}

// New builds a module from a validated config.
func New(cfg *config.Config) *Module {
	opts := core.Options{
		ServerName:        cfg.ServerName,
		UnfreezeBlacklist: cfg.UnfreezeBlacklist,
		PromoteModerators: cfg.PromoteModerators,
		AdminLevel:        cfg.AdminLevel,
		ModeratorLevel:    cfg.ModeratorLevel,
	}
	return &Module{
		admission:  core.NewAdmission(opts),
		succession: core.NewSuccession(opts),
	}
}

// IsFrozen reports whether the room described by the snapshot is frozen.
func (m *Module) IsFrozen(state domain.StateMap) bool {
	return core.IsFrozen(state)
}

// CheckEventAllowed answers "may this event be sent?" for the host.
func (m *Module) CheckEventAllowed(ev *domain.Event, state domain.StateMap) core.Decision {
	d := m.admission.CanSendEvent(ev, state)
	if d.Denied() {
		log.Info().Str("module", "app.freezeroom").Str("room", string(ev.RoomID)).
			Str("sender", string(ev.Sender)).Str("type", ev.Type).Str("reason", d.Reason).
			Msg("event rejected")
	} else if len(d.FollowUps) > 0 {
		log.Info().Str("module", "app.freezeroom").Str("room", string(ev.RoomID)).
			Str("sender", string(ev.Sender)).Msg("room unfrozen, sender takes over as admin")
	} else {
		log.Debug().Str("module", "app.freezeroom").Str("room", string(ev.RoomID)).
			Str("type", ev.Type).Msg("event allowed")
	}
	return d
}

// OnUserDeparted reacts to a completed leave/ban. The returned event, if
// any, is a follow-up the host should send into the room: a promotion of
// a replacement admin, or the frozen marker.
func (m *Module) OnUserDeparted(roomID domain.RoomID, state domain.StateMap, departed domain.UserID) (*domain.Event, bool) {
	followUp := m.succession.OnUserDeparted(roomID, state, departed)
	if followUp == nil {
		return nil, false
	}
	switch followUp.Type {
	case domain.EventTypeFrozen:
		log.Info().Str("module", "app.freezeroom").Str("room", string(roomID)).
			Str("departed", string(departed)).Msg("freezing room, no admin left")
	case domain.EventTypePowerLevels:
		log.Info().Str("module", "app.freezeroom").Str("room", string(roomID)).
			Str("departed", string(departed)).Str("promoted", string(followUp.Sender)).
			Msg("promoting replacement admin")
	}
	return followUp, true
}
