package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what changed.
type EventType string

const (
	EventDatasetImported      EventType = "dataset.imported"
	EventProductionLinesSaved EventType = "production_lines.saved"
)

// Event is the message published after a dataset or configuration change.
// Consumers re-read the state they need; the event carries only counts.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Imported  int       `json:"imported,omitempty"`
	Total     int       `json:"total"`
}

// NewDatasetImportedEvent describes an import of imported records from
// source, leaving total records in the dataset.
func NewDatasetImportedEvent(source, mode string, imported, total int) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventDatasetImported,
		Timestamp: time.Now(),
		Source:    source,
		Mode:      mode,
		Imported:  imported,
		Total:     total,
	}
}

// NewProductionLinesSavedEvent describes a replaced production-line list of
// total machines.
func NewProductionLinesSavedEvent(total int) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventProductionLinesSaved,
		Timestamp: time.Now(),
		Total:     total,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event and rejects messages without id or type.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.ID == "" || e.Type == "" {
		return nil, fmt.Errorf("event missing id or type")
	}
	return &e, nil
}
