// Package domain contains the event and room-state types decisions are made on.
// No transport or host logic here.
package domain

// Event types this module inspects or emits.
const (
	EventTypeMember      = "m.room.member"
	EventTypePowerLevels = "m.room.power_levels"
	EventTypeFrozen      = "org.matrix.room.frozen"
)

// Membership states a member event can carry.
const (
	MembershipInvite = "invite"
	MembershipJoin   = "join"
	MembershipKnock  = "knock"
	MembershipLeave  = "leave"
	MembershipBan    = "ban"
)

type RoomID string

// Event is the slice of a room event needed for admission decisions.
// Content stays schemaless because state produced by other servers may
// carry anything; typed accessors below tolerate whatever is in there.
type Event struct {
	RoomID   RoomID         `json:"room_id,omitempty"`
	Type     string         `json:"type"`
	StateKey *string        `json:"state_key,omitempty"`
	Sender   UserID         `json:"sender,omitempty"`
	Content  map[string]any `json:"content"`
}

// NewStateEvent avoids raw literals for events this module emits itself.
func NewStateEvent(roomID RoomID, eventType string, stateKey string, sender UserID, content map[string]any) *Event {
	return &Event{
		RoomID:   roomID,
		Type:     eventType,
		StateKey: &stateKey,
		Sender:   sender,
		Content:  content,
	}
}

// IsState reports whether the event is a state event.
func (e *Event) IsState() bool { return e.StateKey != nil }

// Membership returns the membership field of a member event, or "" when
// missing or not a string.
func (e *Event) Membership() string {
	s, _ := e.Content["membership"].(string)
	return s
}

// FrozenFlag extracts the "frozen" field of a frozen-marker event.
// ok is false when the field is missing or not a boolean.
func (e *Event) FrozenFlag() (frozen bool, ok bool) {
	if e.Content == nil {
		return false, false
	}
	frozen, ok = e.Content["frozen"].(bool)
	return frozen, ok
}

// StateTuple keys room state by (event type, state key).
type StateTuple struct {
	Type     string
	StateKey string
}

// StateMap is a read-only snapshot of a room's current state, keyed by
// (event type, state key). Supplied by the host per decision; never
// mutated or retained by this module.
type StateMap map[StateTuple]*Event

// Get returns the state event for the given type and state key, or nil.
func (s StateMap) Get(eventType, stateKey string) *Event {
	return s[StateTuple{Type: eventType, StateKey: stateKey}]
}

// FrozenMarker returns the room's frozen-marker state event, or nil.
func (s StateMap) FrozenMarker() *Event {
	return s.Get(EventTypeFrozen, "")
}

// MembershipOf returns the current membership of a user, or "" when the
// user has no member state event.
func (s StateMap) MembershipOf(user UserID) string {
	ev := s.Get(EventTypeMember, string(user))
	if ev == nil {
		return ""
	}
	return ev.Membership()
}

// PowerLevels parses the room's power-levels state. ok is false when the
// event is absent or its users section is unusable.
func (s StateMap) PowerLevels() (PowerLevels, bool) {
	ev := s.Get(EventTypePowerLevels, "")
	if ev == nil {
		return PowerLevels{}, false
	}
	return ParsePowerLevels(ev.Content)
}
