// models/history.go
package models

import "time"

const (
	HistoryShipment    = "shipment"
	HistoryTournament  = "tournament"
	HistoryReturn      = "return"
	HistoryMaintenance = "maintenance"
)

// HistoryEntry is one record in the append-only per-camera audit log.
// Entries are written best-effort: a failed write never rolls back the
// mutation that produced it.
type HistoryEntry struct {
	ID       string            `bson:"_id" json:"id"`
	CameraID string            `bson:"cameraId" json:"cameraId"`
	Type     string            `bson:"type" json:"type"`
	Title    string            `bson:"title" json:"title"`
	Details  map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	Date     time.Time         `bson:"date" json:"date"`
}
