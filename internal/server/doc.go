// Package server streams engine frames to websocket clients and feeds their
// commands back into the tick loop. Commands never touch the engine from a
// connection goroutine; they are queued and applied before the next tick.
package server
