// Package server tracks each live connection's current room through the
// connection registry owned by the hub.
package server

// registry maps a connection to its current room id. A connection belongs to
// at most one room at a time; joining a new room overwrites the old entry.
// Entries are removed on disconnect, so the registry grows only with
// concurrent connections.
//
// The registry is not internally synchronized: all access happens on the
// hub's event loop goroutine.
type registry struct {
	byClient map[*Client]string
}

func newRegistry() *registry {
	return &registry{byClient: make(map[*Client]string)}
}

// setRoom records c's current room, replacing any previous assignment.
func (r *registry) setRoom(c *Client, roomID string) {
	r.byClient[c] = roomID
}

// room returns the room id c currently belongs to, if any.
func (r *registry) room(c *Client) (string, bool) {
	roomID, ok := r.byClient[c]
	return roomID, ok
}

// clearRoom removes c's assignment. Clearing an absent entry is a no-op.
func (r *registry) clearRoom(c *Client) {
	delete(r.byClient, c)
}

func (r *registry) size() int {
	return len(r.byClient)
}
