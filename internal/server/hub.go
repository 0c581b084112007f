// Package server coordinates client registration, room membership, message
// routing, and connection cleanup for the chat relay via the Hub type.
package server

import (
	"context"
	"log"
	"sync"
	"time"
)

// inboundFrame is one raw text frame received from a client, queued for the
// hub's event loop.
type inboundFrame struct {
	sender *Client
	data   []byte
}

// Hub owns all shared mutable state of the relay: the set of live clients,
// the room table, and the connection registry. Every mutation happens on the
// single Run goroutine, so join, chat, and close paths are serialized with
// respect to each other and all members of a room observe broadcasts in the
// same relative order.
type Hub struct {
	clients    map[*Client]bool
	rooms      *roomTable
	registry   *registry
	inbound    chan inboundFrame
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewHub creates a Hub ready to manage connections. Call Run in a separate
// goroutine to start processing events.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      newRoomTable(),
		registry:   newRegistry(),
		inbound:    make(chan inboundFrame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run is the hub's main event loop, handling client registration, inbound
// frames, and disconnects. It runs until Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Printf("Received nil client registration; skipping")
				continue
			}
			h.addClient(client)

		case client := <-h.unregister:
			h.disconnect(client)

		case frame := <-h.inbound:
			h.route(frame.sender, frame.data)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	client.closed = false
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mutex.Unlock()
	log.Printf("Client %s connected from %s. Total clients: %d", client.id, client.addr, clientCount)

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// disconnect removes a client from the hub and from its room, rebroadcasting
// the room's user list to any remaining members. It is idempotent: close and
// error events may both land here for the same connection, and only the first
// has any effect.
func (h *Hub) disconnect(client *Client) {
	h.mutex.Lock()
	_, registered := h.clients[client]
	if registered {
		delete(h.clients, client)
		client.closed = true
	}
	clientCount := len(h.clients)
	h.mutex.Unlock()

	if !registered {
		return
	}
	close(client.send)

	if roomID, ok := h.registry.room(client); ok {
		h.rooms.leave(roomID, client)
		h.registry.clearRoom(client)
		if h.rooms.isEmpty(roomID) {
			log.Printf("Room %q deleted (empty)", roomID)
		} else {
			h.broadcastUserList(roomID)
		}
	}
	log.Printf("Client %s from %s disconnected. Total clients: %d", client.id, client.addr, clientCount)
}

// safeSend queues a frame on the client's buffered send channel without
// blocking. It returns false when the client is no longer registered, already
// closed, or its buffer is full; a slow receiver must not stall broadcasts to
// other members.
func (h *Hub) safeSend(client *Client, frame []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in safeSend: %v", r)
		}
	}()

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[client]
	if !exists || client.closed {
		return false
	}

	select {
	case client.send <- frame:
		return true
	default:
		return false
	}
}

// shutdownClients closes all active client connections during hub shutdown.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error closing client connection from %s: %v", client.addr, err)
				}
			}
		}
	}

	log.Printf("Closed %d client connections", len(clients))
}

// Shutdown stops the event loop and waits for all client goroutines to
// finish, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
