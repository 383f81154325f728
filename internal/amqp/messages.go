package amqp

import (
	"encoding/json"
	"time"
)

// ItemSyncMessage asks the worker to export one purchased item to the
// ledger spreadsheet. It carries only the item id; the worker fetches the
// full document from the database so the export always reflects the
// latest state.
type ItemSyncMessage struct {
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewItemSyncMessage creates a sync message for the given item id
func NewItemSyncMessage(itemID string) *ItemSyncMessage {
	return &ItemSyncMessage{
		ItemID:    itemID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ItemSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ItemSyncMessageFromJSON creates a message from JSON bytes
func ItemSyncMessageFromJSON(data []byte) (*ItemSyncMessage, error) {
	var msg ItemSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ItemID == "" {
		return nil, errEmptyItemID
	}
	return &msg, nil
}
