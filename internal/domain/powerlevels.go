package domain

import "encoding/json"

// PowerLevels is the decision-relevant slice of m.room.power_levels
// content. Fields the module never reads (events, ban, kick, ...) are left
// in the raw event content and carried through untouched by follow-ups.
type PowerLevels struct {
	Users        map[UserID]int
	UsersDefault int
}

// Level returns the effective power level of a user.
func (p PowerLevels) Level(user UserID) int {
	if level, ok := p.Users[user]; ok {
		return level
	}
	return p.UsersDefault
}

// ParsePowerLevels extracts the users section of power-levels content.
// ok is false when content is nil or "users" is missing or not a map;
// individual entries that are not numbers are skipped. Numbers arrive as
// float64 or json.Number depending on the host's decoder.
func ParsePowerLevels(content map[string]any) (PowerLevels, bool) {
	if content == nil {
		return PowerLevels{}, false
	}
	rawUsers, ok := content["users"].(map[string]any)
	if !ok {
		return PowerLevels{}, false
	}

	pl := PowerLevels{Users: make(map[UserID]int, len(rawUsers))}
	for user, raw := range rawUsers {
		if level, ok := asInt(raw); ok {
			pl.Users[UserID(user)] = level
		}
	}
	if def, ok := asInt(content["users_default"]); ok {
		pl.UsersDefault = def
	}
	return pl, true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// CloneContent deep-copies event content so follow-up events can mutate a
// copy without touching the host's snapshot.
func CloneContent(content map[string]any) map[string]any {
	if content == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(content))
	for k, v := range content {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneContent(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
