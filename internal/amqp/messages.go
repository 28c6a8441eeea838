package amqp

import (
	"encoding/json"
	"time"
)

// UserEventMessage is one inbound user interaction delivered by the chat
// transport: either a button tap (ActionID) or free text, never both.
type UserEventMessage struct {
	UserID    int64     `json:"user_id"`
	ActionID  string    `json:"action_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsAction reports whether the event is a button tap.
func (m *UserEventMessage) IsAction() bool {
	return m.ActionID != ""
}

// ReplyButton mirrors one keyboard button for the transport to render.
type ReplyButton struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
}

// ReplyMessage is the outbound message descriptor; the transport owns layout
// and delivery.
type ReplyMessage struct {
	UserID    int64           `json:"user_id"`
	Text      string          `json:"text"`
	Keyboard  [][]ReplyButton `json:"keyboard,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// TransactionRecordedMessage announces a committed transaction. It carries
// only the id; the export worker re-reads the row from storage.
type TransactionRecordedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(id int64) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{ID: id, Timestamp: time.Now()}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func UserEventMessageFromJSON(data []byte) (*UserEventMessage, error) {
	var msg UserEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ReplyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
