package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySetAndGet(t *testing.T) {
	reg := newRegistry()
	client := &Client{}

	_, ok := reg.room(client)
	assert.False(t, ok)

	reg.setRoom(client, "general")

	roomID, ok := reg.room(client)
	require.True(t, ok)
	assert.Equal(t, "general", roomID)
	assert.Equal(t, 1, reg.size())
}

func TestRegistrySetRoomOverwrites(t *testing.T) {
	reg := newRegistry()
	client := &Client{}

	reg.setRoom(client, "general")
	reg.setRoom(client, "random")

	roomID, ok := reg.room(client)
	require.True(t, ok)
	assert.Equal(t, "random", roomID)
	assert.Equal(t, 1, reg.size())
}

func TestRegistryClearRoom(t *testing.T) {
	reg := newRegistry()
	client := &Client{}
	reg.setRoom(client, "general")

	reg.clearRoom(client)

	_, ok := reg.room(client)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.size())

	assert.NotPanics(t, func() {
		reg.clearRoom(client)
	})
}
