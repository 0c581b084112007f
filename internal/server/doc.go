// Package server implements the room-based chat relay: WebSocket transport,
// room membership tracking, and message fan-out.
//
// The implementation is organized into specialized files for configuration,
// the hub event loop, room and registry state, routing, broadcasting, and
// per-connection clients to keep the codebase maintainable and testable as
// the project grows.
package server
