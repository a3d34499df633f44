// models/shipment.go
package models

import "time"

const (
	ShipmentPreparando = "preparando"
	ShipmentPendiente  = "pendiente"
	ShipmentEnviado    = "enviado"
	ShipmentEntregado  = "entregado"
	ShipmentCancelado  = "cancelado"
)

type Shipment struct {
	ID             string    `bson:"_id" json:"id"`
	Cameras        []string  `bson:"cameras" json:"cameras"`
	Origin         string    `bson:"origin" json:"origin"`
	Destination    string    `bson:"destination" json:"destination"`
	RecipientID    string    `bson:"recipientId" json:"recipientId"`
	Recipient      string    `bson:"recipient" json:"recipient"` // display name
	Shipper        string    `bson:"shipper,omitempty" json:"shipper,omitempty"`
	Sender         string    `bson:"sender,omitempty" json:"sender,omitempty"`
	Date           string    `bson:"date" json:"date"`
	Status         string    `bson:"status" json:"status"`
	TrackingNumber string    `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
