// Package server maintains the room table: the mapping from room ids to
// member sets, with lazy creation and eager deletion.
package server

// roomTable maps room ids to member sets. A room is created on first join and
// deleted the instant its member set becomes empty, so the table's size is
// bounded by active rooms only.
//
// Like the registry, the table is mutated exclusively on the hub's event loop
// goroutine and carries no lock of its own.
type roomTable struct {
	rooms map[string]map[*Client]struct{}
}

func newRoomTable() *roomTable {
	return &roomTable{rooms: make(map[string]map[*Client]struct{})}
}

// join adds c to roomID's member set, creating the room if it does not exist.
// Room ids are opaque: no normalization or charset policy is applied.
func (t *roomTable) join(roomID string, c *Client) {
	members, ok := t.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		t.rooms[roomID] = members
	}
	members[c] = struct{}{}
}

// leave removes c from roomID's member set and deletes the room entry once it
// is empty. Leaving a room that no longer exists is a no-op.
func (t *roomTable) leave(roomID string, c *Client) {
	members, ok := t.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(t.rooms, roomID)
	}
}

// members returns a snapshot of the room's member set. The snapshot is safe
// to iterate while the table is mutated, so a leave triggered mid-broadcast
// cannot corrupt the fan-out loop.
func (t *roomTable) members(roomID string) []*Client {
	members, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	snapshot := make([]*Client, 0, len(members))
	for c := range members {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// isEmpty reports whether roomID has no members. An absent room is empty.
func (t *roomTable) isEmpty(roomID string) bool {
	return len(t.rooms[roomID]) == 0
}

func (t *roomTable) roomCount() int {
	return len(t.rooms)
}
