package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// Update is a real-time entity change pushed to connected dashboards.
type Update struct {
	Type      string      `json:"type"` // e.g. CAMERA_UPDATED, SHIPMENT_STATUS_CHANGE
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entityId"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	UserName  string      `json:"userName,omitempty"`
}

func (h *Hub) sendUpdate(update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal update: %v", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) SendCreated(entity, id string, doc interface{}, userName string) {
	h.sendUpdate(Update{
		Type:      entity + "_CREATED",
		Entity:    entity,
		EntityID:  id,
		Data:      doc,
		Timestamp: time.Now(),
		UserName:  userName,
	})
}

func (h *Hub) SendUpdated(entity, id string, doc interface{}, userName string) {
	h.sendUpdate(Update{
		Type:      entity + "_UPDATED",
		Entity:    entity,
		EntityID:  id,
		Data:      doc,
		Timestamp: time.Now(),
		UserName:  userName,
	})
}

func (h *Hub) SendDeleted(entity, id string, userName string) {
	h.sendUpdate(Update{
		Type:      entity + "_DELETED",
		Entity:    entity,
		EntityID:  id,
		Timestamp: time.Now(),
		UserName:  userName,
	})
}

func (h *Hub) SendStatusChange(entity, id, oldStatus, newStatus, userName string) {
	h.sendUpdate(Update{
		Type:     entity + "_STATUS_CHANGE",
		Entity:   entity,
		EntityID: id,
		Data: map[string]interface{}{
			"oldStatus": oldStatus,
			"newStatus": newStatus,
		},
		Timestamp: time.Now(),
		UserName:  userName,
	})
}
