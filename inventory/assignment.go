// inventory/assignment.go
//
// The worker↔camera relation. Camera.AssignedTo keys on worker id and both
// sides of the relation are staged by a single reassign, so the old
// skip-flag mutual recursion between camera and worker updates is gone.
package inventory

import (
	"context"
	"time"

	"camops/models"
	"camops/store"
)

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// reassign moves a camera to a worker (or unassigns it when workerID is
// empty), updating both sides of the relation in the transaction cache.
// Assigning relocates the camera to the worker's state. An unknown worker id
// is logged and leaves the camera unassigned.
func (t *txn) reassign(cam *models.Camera, workerID string) error {
	if cam.AssignedTo == workerID {
		if workerID == "" {
			return nil
		}
		w, err := t.worker(workerID)
		if err != nil {
			return err
		}
		if w != nil {
			cam.AssignedToName = w.Name
			w.CamerasAssigned = appendUnique(w.CamerasAssigned, cam.ID)
		}
		return nil
	}

	if cam.AssignedTo != "" {
		prev, err := t.worker(cam.AssignedTo)
		if err != nil {
			return err
		}
		if prev != nil {
			prev.CamerasAssigned = removeID(prev.CamerasAssigned, cam.ID)
		}
	}
	cam.AssignedTo = ""
	cam.AssignedToName = ""

	if workerID == "" {
		return nil
	}
	w, err := t.worker(workerID)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}
	w.CamerasAssigned = appendUnique(w.CamerasAssigned, cam.ID)
	cam.AssignedTo = w.ID
	cam.AssignedToName = w.Name
	if w.State != "" {
		cam.Location = w.State
	}
	return nil
}

// release returns a camera to the warehouse: available, unassigned.
func (t *txn) release(cam *models.Camera) error {
	cam.Status = models.CameraDisponible
	if err := t.reassign(cam, ""); err != nil {
		return err
	}
	cam.Location = models.Warehouse
	return nil
}

func (s *Service) CreateCamera(ctx context.Context, in models.Camera) (*models.Camera, error) {
	id, err := s.store.NextID(ctx, "CAM")
	if err != nil {
		return nil, err
	}
	in.ID = id
	if in.Status == "" {
		in.Status = models.CameraDisponible
	}
	if in.Location == "" {
		in.Location = models.Warehouse
	}
	in.CreatedAt = time.Now().UTC()

	t := s.begin(ctx)
	workerID := in.AssignedTo
	in.AssignedTo, in.AssignedToName = "", ""
	t.trackCamera(&in)
	if workerID != "" {
		if err := t.reassign(&in, workerID); err != nil {
			return nil, err
		}
	}
	if _, err := t.commit(nil); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) UpdateCamera(ctx context.Context, id string, p CameraPatch) (*models.Camera, HistoryOutcome, error) {
	cam, err := s.store.Camera(ctx, id)
	if err != nil {
		return nil, HistoryOutcome{}, err
	}

	t := s.begin(ctx)
	t.trackCamera(cam)

	if p.Model != nil {
		cam.Model = *p.Model
	}
	if p.Type != nil {
		cam.Type = *p.Type
	}
	if p.SerialNumber != nil {
		cam.SerialNumber = *p.SerialNumber
	}
	if p.SimNumber != nil {
		cam.SimNumber = *p.SimNumber
	}
	if p.Notes != nil {
		cam.Notes = *p.Notes
	}
	if p.AssignedTo != nil && *p.AssignedTo != cam.AssignedTo {
		if err := t.reassign(cam, *p.AssignedTo); err != nil {
			return nil, HistoryOutcome{}, err
		}
	}
	if p.Location != nil {
		cam.Location = *p.Location
	}
	if p.Status != nil && *p.Status != cam.Status {
		cam.Status = *p.Status
		switch cam.Status {
		case models.CameraMantenimiento:
			t.appendHistory(cam.ID, models.HistoryMaintenance, "Enviada a mantenimiento", nil)
		case models.CameraReparacion:
			t.appendHistory(cam.ID, models.HistoryMaintenance, "Enviada a reparación", nil)
		}
	}

	outcome, err := t.commit(nil)
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	return cam, outcome, nil
}

// ReassignCamera moves a camera between workers in one operation.
func (s *Service) ReassignCamera(ctx context.Context, cameraID, workerID string) (*models.Camera, error) {
	cam, err := s.store.Camera(ctx, cameraID)
	if err != nil {
		return nil, err
	}
	t := s.begin(ctx)
	t.trackCamera(cam)
	if err := t.reassign(cam, workerID); err != nil {
		return nil, err
	}
	if _, err := t.commit(nil); err != nil {
		return nil, err
	}
	return cam, nil
}

// DeleteCamera detaches the camera from its worker and purges its history
// before removing it, so no dangling reference survives.
func (s *Service) DeleteCamera(ctx context.Context, id string) error {
	cam, err := s.store.Camera(ctx, id)
	if err != nil {
		return err
	}
	t := s.begin(ctx)
	t.trackCamera(cam)
	if err := t.reassign(cam, ""); err != nil {
		return err
	}
	t.drop(store.CollCameras, id)
	_, err = t.commit(func(cs *store.ChangeSet) {
		if err := t.purgeHistoryForCamera(cs, id); err != nil {
			// scan failure leaves orphaned entries; the delete still goes through
			logPurgeSkip(err)
		}
	})
	return err
}

func (s *Service) CreateWorker(ctx context.Context, in models.Worker) (*models.Worker, error) {
	id, err := s.store.NextID(ctx, "TEC")
	if err != nil {
		return nil, err
	}
	in.ID = id
	if in.Status == "" {
		in.Status = models.WorkerDisponible
	}
	in.CreatedAt = time.Now().UTC()

	requested := in.CamerasAssigned
	in.CamerasAssigned = nil

	t := s.begin(ctx)
	t.track(&in)
	for _, camID := range requested {
		cam, err := t.camera(camID)
		if err != nil {
			return nil, err
		}
		if cam == nil {
			continue
		}
		if err := t.reassign(cam, in.ID); err != nil {
			return nil, err
		}
	}
	if _, err := t.commit(nil); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) UpdateWorker(ctx context.Context, id string, p WorkerPatch) (*models.Worker, error) {
	w, err := s.store.Worker(ctx, id)
	if err != nil {
		return nil, err
	}
	t := s.begin(ctx)
	t.track(w)

	if p.Name != nil && *p.Name != w.Name {
		w.Name = *p.Name
		// keep the denormalized display name on this worker's cameras current
		for _, camID := range w.CamerasAssigned {
			cam, err := t.camera(camID)
			if err != nil {
				return nil, err
			}
			if cam != nil && cam.AssignedTo == w.ID {
				cam.AssignedToName = w.Name
			}
		}
	}
	if p.State != nil {
		w.State = *p.State
	}
	if p.Phone != nil {
		w.Phone = *p.Phone
	}
	if p.Email != nil {
		w.Email = *p.Email
	}
	if p.Status != nil {
		w.Status = *p.Status
	}

	if p.CamerasAssigned != nil {
		desired := make(map[string]bool, len(*p.CamerasAssigned))
		for _, camID := range *p.CamerasAssigned {
			desired[camID] = true
		}
		for _, camID := range cloneList(w.CamerasAssigned) {
			if desired[camID] {
				continue
			}
			cam, err := t.camera(camID)
			if err != nil {
				return nil, err
			}
			if cam == nil {
				w.CamerasAssigned = removeID(w.CamerasAssigned, camID)
				continue
			}
			// removal clears the assignment; status and location stay put
			if err := t.reassign(cam, ""); err != nil {
				return nil, err
			}
		}
		for _, camID := range *p.CamerasAssigned {
			if w.HasCamera(camID) {
				continue
			}
			cam, err := t.camera(camID)
			if err != nil {
				return nil, err
			}
			if cam == nil {
				continue
			}
			if err := t.reassign(cam, w.ID); err != nil {
				return nil, err
			}
		}
	}

	if _, err := t.commit(nil); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorker unassigns every camera the worker holds, then removes the
// worker.
func (s *Service) DeleteWorker(ctx context.Context, id string) error {
	w, err := s.store.Worker(ctx, id)
	if err != nil {
		return err
	}
	t := s.begin(ctx)
	t.track(w)
	for _, camID := range cloneList(w.CamerasAssigned) {
		cam, err := t.camera(camID)
		if err != nil {
			return err
		}
		if cam == nil {
			continue
		}
		if err := t.reassign(cam, ""); err != nil {
			return err
		}
	}
	t.drop(store.CollWorkers, id)
	_, err = t.commit(nil)
	return err
}

func cloneList(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
