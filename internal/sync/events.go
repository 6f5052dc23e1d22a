package sync

import "time"

const SyncedEventType = "legislators.synced"

// SyncEvent is broadcast after one lookup key has been persisted (or failed).
type SyncEvent struct {
	Type   string    `json:"type"` // "legislators.synced"
	RunID  string    `json:"run_id"`
	Source string    `json:"source"`
	Key    string    `json:"key"`
	Count  int       `json:"count"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}
