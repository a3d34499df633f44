// models/camera.go
package models

import "time"

// Camera status values. Kept in Spanish to match what operations uses day to day.
const (
	CameraDisponible    = "disponible"
	CameraEnUso         = "en uso"
	CameraEnEnvio       = "en envio"
	CameraMantenimiento = "mantenimiento"
	CameraReparacion    = "reparación"
	CameraDanada        = "dañada"
)

// Warehouse is where unassigned cameras live between deployments.
const Warehouse = "Almacén"

type Camera struct {
	ID             string    `bson:"_id" json:"id"`
	Model          string    `bson:"model" json:"model"`
	Type           string    `bson:"type" json:"type"`
	Status         string    `bson:"status" json:"status"`
	Location       string    `bson:"location" json:"location"`
	AssignedTo     string    `bson:"assignedTo" json:"assignedTo"`         // worker id, empty when unassigned
	AssignedToName string    `bson:"assignedToName" json:"assignedToName"` // denormalized for display
	SerialNumber   string    `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	SimNumber      string    `bson:"simNumber,omitempty" json:"simNumber,omitempty"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
