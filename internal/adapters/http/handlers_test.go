package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/matrix-org/synapse-freeze-room/internal/app"
	"github.com/matrix-org/synapse-freeze-room/internal/config"
	"github.com/matrix-org/synapse-freeze-room/internal/core"
	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

func testRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.AdminLevel == 0 {
		cfg.AdminLevel = 100
		cfg.ModeratorLevel = 50
	}
	return SetupRouter(&cfg, app.New(&cfg))
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func frozenStateJSON() []map[string]any {
	return []map[string]any{
		{
			"type": domain.EventTypeFrozen, "state_key": "",
			"sender": "@admin:example.com", "content": map[string]any{"frozen": true},
		},
		{
			"type": domain.EventTypePowerLevels, "state_key": "",
			"sender":  "@admin:example.com",
			"content": map[string]any{"users": map[string]any{"@admin:example.com": 100}},
		},
	}
}

func TestCheckEventEndpointDenies(t *testing.T) {
	r := testRouter(t, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/events/check", map[string]any{
		"event": map[string]any{
			"type": "m.room.message", "sender": "@user:example.com",
			"content": map[string]any{"body": "hi"},
		},
		"state": frozenStateJSON(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CheckEventResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
	assert.Equal(t, core.ReasonRoomFrozen, resp.Reason)
	assert.Empty(t, resp.FollowUpEvents)
}

func TestCheckEventEndpointUnfreezeTakeover(t *testing.T) {
	r := testRouter(t, config.Config{UnfreezeBlacklist: []string{"evil.com"}})

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/events/check", map[string]any{
		"event": map[string]any{
			"type": domain.EventTypeFrozen, "state_key": "",
			"sender": "@user:example.com", "content": map[string]any{"frozen": false},
		},
		"state": frozenStateJSON(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CheckEventResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)
	if assert.Len(t, resp.FollowUpEvents, 1) {
		followUp := resp.FollowUpEvents[0]
		assert.Equal(t, domain.EventTypePowerLevels, followUp.Type)
		// The room_id from the URL is stamped onto the decision.
		assert.Equal(t, domain.RoomID("!r:example.com"), followUp.RoomID)
		users := followUp.Content["users"].(map[string]any)
		assert.EqualValues(t, 100, users["@user:example.com"])
		assert.EqualValues(t, 50, users["@admin:example.com"])
	}
}

func TestCheckEventEndpointBlacklisted(t *testing.T) {
	r := testRouter(t, config.Config{UnfreezeBlacklist: []string{"evil.com"}})

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/events/check", map[string]any{
		"event": map[string]any{
			"type": domain.EventTypeFrozen, "state_key": "",
			"sender": "@mallory:evil.com", "content": map[string]any{"frozen": false},
		},
		"state": frozenStateJSON(),
	})

	var resp CheckEventResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
	assert.Equal(t, core.ReasonBlacklistedServer, resp.Reason)
}

func TestCheckEventEndpointRejectsBadPayload(t *testing.T) {
	r := testRouter(t, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/events/check", map[string]any{
		"state": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFrozenEndpoint(t *testing.T) {
	r := testRouter(t, config.Config{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/frozen", map[string]any{
		"state": frozenStateJSON(),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var resp FrozenResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Frozen)

	w = doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/frozen", map[string]any{
		"state": []map[string]any{},
	})
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Frozen)
}

func TestMemberDepartedEndpoint(t *testing.T) {
	r := testRouter(t, config.Config{})

	state := []map[string]any{
		{
			"type": domain.EventTypePowerLevels, "state_key": "",
			"sender":  "@admin:example.com",
			"content": map[string]any{"users": map[string]any{"@admin:example.com": 100}},
		},
		{
			"type": domain.EventTypeMember, "state_key": "@admin:example.com",
			"sender": "@admin:example.com", "content": map[string]any{"membership": "leave"},
		},
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/rooms/!r:example.com/members/departed", map[string]any{
		"user_id": "@admin:example.com",
		"state":   state,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp DepartedResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.NotNil(t, resp.FollowUpEvent) {
		assert.Equal(t, domain.EventTypeFrozen, resp.FollowUpEvent.Type)
		frozen, ok := resp.FollowUpEvent.FrozenFlag()
		assert.True(t, ok)
		assert.True(t, frozen)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t, config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
