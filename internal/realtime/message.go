package realtime

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Change-feed protocol definitions

// Tables clients may subscribe to.
const (
	TableMaterials  = "materials"
	TableCategories = "categories"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ChangeEvent tells subscribed clients that a row in table changed and they
// should re-run the corresponding fetch. It carries no row data on purpose:
// the store stays the single source of truth.
type ChangeEvent struct {
	Table     string    `json:"table"`
	Action    Action    `json:"action"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent constructs a change event stamped with the current UTC time.
func NewChangeEvent(table string, action Action, recordID string) *ChangeEvent {
	return &ChangeEvent{
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal ChangeEvent struct to JSON
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal change event to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// ChangeEventFromJSON: unmarshal JSON data to ChangeEvent struct
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Error("Failed to unmarshal change event from JSON", "error", err)
		return nil, err
	}
	return &e, nil
}
