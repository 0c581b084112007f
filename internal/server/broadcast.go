// Package server fans outbound envelopes out to room members. Broadcasting
// mutates no state: each broadcast serializes one envelope and delivers the
// identical bytes to every open member of the room.
package server

import "log"

// broadcastUserList sends the room's current user list to every member.
// Members that never attached a user profile are excluded from the list but
// still receive the broadcast.
func (h *Hub) broadcastUserList(roomID string) {
	members := h.rooms.members(roomID)
	if len(members) == 0 {
		return
	}

	users := make([]User, 0, len(members))
	for _, member := range members {
		if member.user != nil {
			users = append(users, *member.user)
		}
	}

	frame, err := encodeEnvelope(TypeUserList, UserListPayload{Users: users})
	if err != nil {
		log.Printf("Error encoding user list for room %q: %v", roomID, err)
		return
	}
	h.fanOut(roomID, members, frame)
}

// broadcastChat sends a chat envelope to every member of the room, echoing it
// back to the originator as well.
func (h *Hub) broadcastChat(roomID, message string, user User, timestamp string) {
	members := h.rooms.members(roomID)
	if len(members) == 0 {
		return
	}

	frame, err := encodeEnvelope(TypeChat, ChatBroadcastPayload{
		Message:   message,
		User:      user,
		Timestamp: timestamp,
	})
	if err != nil {
		log.Printf("Error encoding chat for room %q: %v", roomID, err)
		return
	}
	h.fanOut(roomID, members, frame)
}

// fanOut delivers one serialized frame to a member snapshot. A member whose
// transport is closed or whose buffer is full is skipped, never removed here;
// removal happens only through the explicit leave and close paths. A failed
// send never aborts delivery to the remaining members.
func (h *Hub) fanOut(roomID string, members []*Client, frame []byte) {
	delivered := 0
	for _, member := range members {
		if h.safeSend(member, frame) {
			delivered++
		}
	}
	if delivered < len(members) {
		log.Printf("Broadcast to room %q reached %d of %d members", roomID, delivered, len(members))
	}
}
