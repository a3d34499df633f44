// inventory/shipment.go
//
// Shipment lifecycle: preparando → pendiente → enviado → entregado, with
// cancelado reachable from any non-terminal state. The status field is the
// whole transition trigger; the effects below keep every listed camera's
// status, assignment and location consistent with it and emit the audit
// trail.
package inventory

import (
	"context"
	"fmt"
	"time"

	"camops/models"
	"camops/store"
)

// applyForwardEffect applies the enviado/entregado camera effect for the
// shipment's current status. Also used for cameras added to an already
// enviado/entregado shipment.
func (t *txn) applyForwardEffect(sh *models.Shipment, camID string) error {
	cam, err := t.camera(camID)
	if err != nil || cam == nil {
		return err
	}
	switch sh.Status {
	case models.ShipmentEnviado:
		cam.Status = models.CameraEnEnvio
		if err := t.reassign(cam, sh.RecipientID); err != nil {
			return err
		}
		t.appendHistory(cam.ID, models.HistoryShipment,
			fmt.Sprintf("Enviado a %s", sh.Destination),
			shipmentDetails(sh))
	case models.ShipmentEntregado:
		cam.Status = models.CameraDisponible
		if err := t.reassign(cam, sh.RecipientID); err != nil {
			return err
		}
		cam.Location = sh.Destination
		t.appendHistory(cam.ID, models.HistoryReturn,
			fmt.Sprintf("Entregado a %s en %s", sh.Recipient, sh.Destination),
			shipmentDetails(sh))
	}
	return nil
}

// applyBackwardEffect undoes a shipment that left enviado or entregado.
func (t *txn) applyBackwardEffect(sh *models.Shipment, oldStatus, camID string) error {
	cam, err := t.camera(camID)
	if err != nil || cam == nil {
		return err
	}
	switch oldStatus {
	case models.ShipmentEntregado:
		// a delivered shipment walked back sends the cameras to the warehouse
		cam.Status = models.CameraDisponible
		if err := t.reassign(cam, ""); err != nil {
			return err
		}
		cam.Location = models.Warehouse
		t.appendHistory(cam.ID, models.HistoryShipment,
			fmt.Sprintf("Devolución cancelada (%s)", sh.Status),
			shipmentDetails(sh))
	case models.ShipmentEnviado:
		// assignment and location stay as they were
		cam.Status = models.CameraDisponible
		t.appendHistory(cam.ID, models.HistoryShipment,
			fmt.Sprintf("Envío cancelado (%s)", sh.Status),
			shipmentDetails(sh))
	}
	return nil
}

func shipmentDetails(sh *models.Shipment) map[string]string {
	d := map[string]string{
		"shipmentId":  sh.ID,
		"origin":      sh.Origin,
		"destination": sh.Destination,
	}
	if sh.TrackingNumber != "" {
		d["trackingNumber"] = sh.TrackingNumber
	}
	return d
}

func (s *Service) CreateShipment(ctx context.Context, in models.Shipment) (*models.Shipment, HistoryOutcome, error) {
	id, err := s.store.NextID(ctx, "ENV")
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	in.ID = id
	if in.Status == "" {
		in.Status = models.ShipmentPreparando
	}
	in.Cameras = dedupe(in.Cameras)
	in.CreatedAt = time.Now().UTC()

	t := s.begin(ctx)
	if w, err := t.worker(in.RecipientID); err != nil {
		return nil, HistoryOutcome{}, err
	} else if w != nil {
		in.Recipient = w.Name
	}

	if in.Status == models.ShipmentEnviado || in.Status == models.ShipmentEntregado {
		for _, camID := range in.Cameras {
			if err := t.applyForwardEffect(&in, camID); err != nil {
				return nil, HistoryOutcome{}, err
			}
		}
	}

	outcome, err := t.commit(func(cs *store.ChangeSet) {
		in.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollShipments, in.ID, in)
	})
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	return &in, outcome, nil
}

func (s *Service) UpdateShipment(ctx context.Context, id string, p ShipmentPatch) (*models.Shipment, HistoryOutcome, error) {
	sh, err := s.store.Shipment(ctx, id)
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	old := *sh
	oldCameras := cloneList(sh.Cameras)

	t := s.begin(ctx)

	if p.Origin != nil {
		sh.Origin = *p.Origin
	}
	if p.Destination != nil {
		sh.Destination = *p.Destination
	}
	if p.Shipper != nil {
		sh.Shipper = *p.Shipper
	}
	if p.Sender != nil {
		sh.Sender = *p.Sender
	}
	if p.Date != nil {
		sh.Date = *p.Date
	}
	if p.TrackingNumber != nil {
		sh.TrackingNumber = *p.TrackingNumber
	}
	if p.RecipientID != nil && *p.RecipientID != sh.RecipientID {
		sh.RecipientID = *p.RecipientID
		sh.Recipient = ""
		if w, err := t.worker(sh.RecipientID); err != nil {
			return nil, HistoryOutcome{}, err
		} else if w != nil {
			sh.Recipient = w.Name
		}
	}
	if p.Status != nil {
		sh.Status = *p.Status
	}
	if p.Cameras != nil {
		sh.Cameras = dedupe(*p.Cameras)
	}

	inNew := make(map[string]bool, len(sh.Cameras))
	for _, camID := range sh.Cameras {
		inNew[camID] = true
	}

	// cameras dropped from the list are released no matter what the status did
	for _, camID := range oldCameras {
		if inNew[camID] {
			continue
		}
		cam, err := t.camera(camID)
		if err != nil {
			return nil, HistoryOutcome{}, err
		}
		if cam == nil {
			continue
		}
		if err := t.release(cam); err != nil {
			return nil, HistoryOutcome{}, err
		}
	}

	if sh.Status != old.Status {
		switch sh.Status {
		case models.ShipmentEnviado, models.ShipmentEntregado:
			for _, camID := range sh.Cameras {
				if err := t.applyForwardEffect(sh, camID); err != nil {
					return nil, HistoryOutcome{}, err
				}
			}
		default:
			for _, camID := range sh.Cameras {
				if err := t.applyBackwardEffect(sh, old.Status, camID); err != nil {
					return nil, HistoryOutcome{}, err
				}
			}
		}
	} else if sh.Status == models.ShipmentEnviado || sh.Status == models.ShipmentEntregado {
		// cameras added under an unchanged terminal-ish status get the same
		// treatment a fresh transition would have given them
		wasListed := make(map[string]bool, len(oldCameras))
		for _, camID := range oldCameras {
			wasListed[camID] = true
		}
		for _, camID := range sh.Cameras {
			if wasListed[camID] {
				continue
			}
			if err := t.applyForwardEffect(sh, camID); err != nil {
				return nil, HistoryOutcome{}, err
			}
		}
	}

	outcome, err := t.commit(func(cs *store.ChangeSet) {
		sh.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollShipments, sh.ID, *sh)
	})
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	return sh, outcome, nil
}

// DeleteShipment releases any camera the shipment still had in transit and
// purges its audit entries along with the delete.
func (s *Service) DeleteShipment(ctx context.Context, id string) error {
	sh, err := s.store.Shipment(ctx, id)
	if err != nil {
		return err
	}
	t := s.begin(ctx)
	for _, camID := range sh.Cameras {
		cam, err := t.camera(camID)
		if err != nil {
			return err
		}
		if cam == nil {
			continue
		}
		if cam.Status == models.CameraEnEnvio {
			if err := t.release(cam); err != nil {
				return err
			}
		}
	}
	t.drop(store.CollShipments, id)
	_, err = t.commit(func(cs *store.ChangeSet) {
		if err := t.purgeHistory(cs, "shipmentId", id); err != nil {
			logPurgeSkip(err)
		}
	})
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
