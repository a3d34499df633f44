// models/tournament.go
package models

import "time"

const (
	TournamentPendiente = "pendiente"
	TournamentActivo    = "activo"
	TournamentTerminado = "terminado"
	TournamentCancelado = "cancelado"
)

// Camera-sufficiency classification, recomputed on create/update.
const (
	CameraStatusComplete     = "complete"
	CameraStatusInsufficient = "insufficient"
	CameraStatusNone         = "none"
	CameraStatusPending      = "pending"
)

// DateLayout is the wire format for tournament dates (form inputs and the
// all-day calendar events both use plain dates).
const DateLayout = "2006-01-02"

type Tournament struct {
	ID                    string    `bson:"_id" json:"id"`
	Name                  string    `bson:"name" json:"name"`
	Location              string    `bson:"location" json:"location"`
	State                 string    `bson:"state" json:"state"`
	Date                  string    `bson:"date" json:"date"`
	EndDate               string    `bson:"endDate" json:"endDate"`
	Days                  int       `bson:"days" json:"days"`
	Holes                 int       `bson:"holes" json:"holes"`
	Status                string    `bson:"status" json:"status"`
	WorkerID              string    `bson:"workerId" json:"workerId"`
	Worker                string    `bson:"worker" json:"worker"` // display name
	Cameras               []string  `bson:"cameras" json:"cameras"`
	CameraStatus          string    `bson:"cameraStatus" json:"cameraStatus"`
	GoogleCalendarEventID string    `bson:"googleCalendarEventId,omitempty" json:"googleCalendarEventId,omitempty"`
	CreatedAt             time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RequiredCameras is two per hole.
func (t *Tournament) RequiredCameras() int {
	return t.Holes * 2
}
