package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matrix-org/synapse-freeze-room/internal/app"
	"github.com/matrix-org/synapse-freeze-room/internal/domain"
)

type handlers struct {
	module *app.Module
}

// CheckEventRequest carries the candidate event and the host's snapshot
// of the room's current state events.
type CheckEventRequest struct {
	Event *domain.Event   `json:"event" binding:"required"`
	State []*domain.Event `json:"state"`
}

type CheckEventResponse struct {
	Allowed        bool            `json:"allowed"`
	Reason         string          `json:"reason,omitempty"`
	FollowUpEvents []*domain.Event `json:"follow_up_events,omitempty"`
}

type DepartedRequest struct {
	UserID domain.UserID   `json:"user_id" binding:"required"`
	State  []*domain.Event `json:"state"`
}

type DepartedResponse struct {
	FollowUpEvent *domain.Event `json:"follow_up_event,omitempty"`
}

type FrozenRequest struct {
	State []*domain.Event `json:"state"`
}

type FrozenResponse struct {
	Frozen bool `json:"frozen"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) checkEvent(c *gin.Context) {
	var req CheckEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid event"})
		return
	}
	if req.Event.RoomID == "" {
		req.Event.RoomID = domain.RoomID(c.Param("room_id"))
	}

	d := h.module.CheckEventAllowed(req.Event, stateMapOf(req.State))
	c.JSON(http.StatusOK, CheckEventResponse{
		Allowed:        d.Allowed,
		Reason:         d.Reason,
		FollowUpEvents: d.FollowUps,
	})
}

func (h *handlers) memberDeparted(c *gin.Context) {
	var req DepartedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid user_id"})
		return
	}

	roomID := domain.RoomID(c.Param("room_id"))
	followUp, _ := h.module.OnUserDeparted(roomID, stateMapOf(req.State), req.UserID)
	c.JSON(http.StatusOK, DepartedResponse{FollowUpEvent: followUp})
}

func (h *handlers) frozen(c *gin.Context) {
	var req FrozenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state payload"})
		return
	}
	c.JSON(http.StatusOK, FrozenResponse{Frozen: h.module.IsFrozen(stateMapOf(req.State))})
}

// stateMapOf indexes the host's state list by (type, state key). Non-state
// events in the list are ignored.
func stateMapOf(events []*domain.Event) domain.StateMap {
	state := make(domain.StateMap, len(events))
	for _, ev := range events {
		if ev == nil || !ev.IsState() {
			continue
		}
		state[domain.StateTuple{Type: ev.Type, StateKey: *ev.StateKey}] = ev
	}
	return state
}
