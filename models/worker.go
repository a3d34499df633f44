// models/worker.go
package models

import "time"

const (
	WorkerActivo     = "activo"
	WorkerDisponible = "disponible"
	WorkerInactivo   = "inactivo"
)

// Worker is a field technician. CamerasAssigned is the authoritative side of the
// worker↔camera relation; Camera.AssignedTo mirrors it by worker id.
type Worker struct {
	ID              string    `bson:"_id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	State           string    `bson:"state" json:"state"` // Mexican state, used as region key
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	Status          string    `bson:"status" json:"status"`
	CamerasAssigned []string  `bson:"camerasAssigned" json:"camerasAssigned"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasCamera reports whether the camera id is in this worker's list.
func (w *Worker) HasCamera(cameraID string) bool {
	for _, id := range w.CamerasAssigned {
		if id == cameraID {
			return true
		}
	}
	return false
}
