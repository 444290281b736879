package network

import (
	"encoding/json"
	"errors"
)

// FrameType identifies the semantic meaning of a realtime frame
type FrameType string

const (
	// Client to server
	FrameSubscribe FrameType = "subscribe"
	FrameHeartbeat FrameType = "heartbeat"

	// Server to client
	FrameAck    FrameType = "ack"
	FrameChange FrameType = "change"
	FrameError  FrameType = "error"
)

// EventInsert is the only change kind the leaderboard listens to
const EventInsert = "INSERT"

// Frame is one JSON text message on the realtime socket
type Frame struct {
	Type    FrameType       `json:"type"`
	Ref     string          `json:"ref,omitempty"`
	Table   string          `json:"table,omitempty"`
	Event   string          `json:"event,omitempty"`
	Game    string          `json:"game,omitempty"`
	Record  json.RawMessage `json:"record,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Filter selects which change notifications a subscription delivers
// Empty fields match anything
type Filter struct {
	Table string
	Event string
	Game  string
}

// Change is a delivered row change
type Change struct {
	Table  string
	Event  string
	Game   string
	Record json.RawMessage
}

var ErrEmptyFilter = errors.New("subscription filter must name a table")

// Validate rejects filters that would match every table
func (f Filter) Validate() error {
	if f.Table == "" {
		return ErrEmptyFilter
	}
	return nil
}

// Match reports whether a change frame passes the filter
func (f Filter) Match(fr *Frame) bool {
	if fr.Type != FrameChange {
		return false
	}
	if f.Table != "" && fr.Table != f.Table {
		return false
	}
	if f.Event != "" && fr.Event != f.Event {
		return false
	}
	if f.Game != "" && fr.Game != f.Game {
		return false
	}
	return true
}

// subscribeFrame builds the request frame for a filter
func subscribeFrame(ref string, f Filter) *Frame {
	return &Frame{
		Type:  FrameSubscribe,
		Ref:   ref,
		Table: f.Table,
		Event: f.Event,
		Game:  f.Game,
	}
}

// change extracts the delivered change from a frame
func (fr *Frame) change() Change {
	return Change{
		Table:  fr.Table,
		Event:  fr.Event,
		Game:   fr.Game,
		Record: fr.Record,
	}
}
