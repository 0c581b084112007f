// Package server routes decoded envelopes to the join and chat handlers and
// enforces the protocol's validation policy at the boundary.
package server

import (
	"encoding/json"
	"log"
	"time"
)

// route classifies one raw frame from a client and dispatches it. A malformed
// frame is logged and dropped without closing the connection: one bad frame
// must not disconnect a client. Unknown envelope types are ignored.
func (h *Hub) route(sender *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("Dropping malformed frame from %s: %v", sender.addr, err)
		return
	}

	switch env.Type {
	case TypeJoin:
		h.handleJoin(sender, env.Payload)
	case TypeChat:
		h.handleChat(sender, env.Payload)
	}
}

// handleJoin moves the sender into the requested room. An incomplete payload
// (missing roomId or user identity) is ignored entirely so no partial state
// mutation can occur. On success the previous room, if any, is left and both
// rooms receive a fresh user list.
func (h *Hub) handleJoin(sender *Client, payload json.RawMessage) {
	var join JoinPayload
	if len(payload) == 0 {
		return
	}
	if err := json.Unmarshal(payload, &join); err != nil {
		log.Printf("Dropping join with malformed payload from %s: %v", sender.addr, err)
		return
	}
	if join.RoomID == "" || join.User == nil || join.User.ID == "" || join.User.Name == "" {
		return
	}

	if oldRoomID, ok := h.registry.room(sender); ok {
		h.rooms.leave(oldRoomID, sender)
		if !h.rooms.isEmpty(oldRoomID) {
			h.broadcastUserList(oldRoomID)
		}
	}

	h.rooms.join(join.RoomID, sender)
	h.registry.setRoom(sender, join.RoomID)
	sender.user = join.User

	log.Printf("%s joined room %q", join.User.Name, join.RoomID)
	h.broadcastUserList(join.RoomID)
}

// handleChat relays a chat message to every member of the sender's room,
// including the sender. The stored user profile is overwritten from the
// payload on every message, so a rename takes effect immediately. Chatting
// before joining a room, or without a user identity, earns the sender an
// error envelope and nothing else.
func (h *Hub) handleChat(sender *Client, payload json.RawMessage) {
	roomID, ok := h.registry.room(sender)
	if !ok {
		h.sendError(sender, ErrMustJoinFirst)
		return
	}

	var chat ChatPayload
	if len(payload) == 0 {
		h.sendError(sender, ErrMissingUser)
		return
	}
	if err := json.Unmarshal(payload, &chat); err != nil {
		log.Printf("Dropping chat with malformed payload from %s: %v", sender.addr, err)
		return
	}
	if chat.User == nil || chat.User.ID == "" {
		h.sendError(sender, ErrMissingUser)
		return
	}

	sender.user = chat.User
	timestamp := time.Now().UTC().Format(time.RFC3339)
	h.broadcastChat(roomID, chat.Message, *chat.User, timestamp)
}

// sendError delivers an error envelope to a single connection. Delivery is
// best-effort like any other send.
func (h *Hub) sendError(client *Client, message string) {
	frame, err := json.Marshal(ErrorEnvelope{Type: TypeError, Message: message})
	if err != nil {
		log.Printf("Error encoding error envelope: %v", err)
		return
	}
	if !h.safeSend(client, frame) {
		log.Printf("Failed to deliver error to client %s from %s", client.id, client.addr)
	}
}
