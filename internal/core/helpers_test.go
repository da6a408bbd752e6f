package core

import (
	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

const testRoomID = domain.RoomID("!someroom:example.com")

func memberEvent(sender, target domain.UserID, membership string) *domain.Event {
	return domain.NewStateEvent(testRoomID, domain.EventTypeMember, string(target), sender,
		map[string]any{"membership": membership})
}

func frozenEvent(sender domain.UserID, content map[string]any) *domain.Event {
	return domain.NewStateEvent(testRoomID, domain.EventTypeFrozen, "", sender, content)
}

func messageEvent(sender domain.UserID) *domain.Event {
	return &domain.Event{
		RoomID:  testRoomID,
		Type:    "m.room.message",
		Sender:  sender,
		Content: map[string]any{"msgtype": "m.text", "body": "hello"},
	}
}

func powerLevelsEvent(users map[string]any) *domain.Event {
	return domain.NewStateEvent(testRoomID, domain.EventTypePowerLevels, "", "@alice:example.com",
		map[string]any{
			"ban":            50,
			"events_default": 0,
			"state_default":  50,
			"users":          users,
			"users_default":  0,
		})
}

func roomState(events ...*domain.Event) domain.StateMap {
	state := make(domain.StateMap, len(events))
	for _, ev := range events {
		state[domain.StateTuple{Type: ev.Type, StateKey: *ev.StateKey}] = ev
	}
	return state
}

// followUpUsers extracts the users section of a power-levels follow-up.
func followUpUsers(ev *domain.Event) map[string]any {
	users, _ := ev.Content["users"].(map[string]any)
	return users
}
