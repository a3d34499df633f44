// inventory/tournament.go
//
// Tournament camera sufficiency: a tournament needs two cameras per hole,
// drawn from its worker's available cameras. The check runs on create and
// edit only; it is not a standing invariant.
package inventory

import (
	"context"
	"fmt"
	"time"

	"camops/models"
	"camops/store"
)

// evaluateCameras recomputes the tournament's camera list and sufficiency
// classification. Cameras dropped from the list go back to disponible;
// cameras picked up are marked en uso and get a tournament history entry.
func (t *txn) evaluateCameras(tour *models.Tournament, listed []string) error {
	required := tour.RequiredCameras()

	releaseFromTournament := func(camID string) error {
		cam, err := t.camera(camID)
		if err != nil || cam == nil {
			return err
		}
		if cam.Status == models.CameraEnUso {
			cam.Status = models.CameraDisponible
		}
		return nil
	}

	w, err := t.worker(tour.WorkerID)
	if err != nil {
		return err
	}
	if w == nil {
		for _, camID := range listed {
			if err := releaseFromTournament(camID); err != nil {
				return err
			}
		}
		tour.Cameras = []string{}
		tour.CameraStatus = models.CameraStatusPending
		return nil
	}
	tour.Worker = w.Name

	chosen := make([]string, 0, required)
	inChosen := make(map[string]bool)
	for _, camID := range dedupe(listed) {
		cam, err := t.camera(camID)
		if err != nil {
			return err
		}
		if cam == nil {
			continue
		}
		if cam.AssignedTo == w.ID && len(chosen) < required {
			chosen = append(chosen, camID)
			inChosen[camID] = true
			continue
		}
		if err := releaseFromTournament(camID); err != nil {
			return err
		}
	}

	if len(chosen) < required {
		all, err := t.svc.store.Cameras(t.ctx)
		if err != nil {
			return fmt.Errorf("scan cameras: %w", err)
		}
		for _, c := range all {
			if len(chosen) >= required {
				break
			}
			if c.AssignedTo != w.ID || c.Status != models.CameraDisponible || inChosen[c.ID] {
				continue
			}
			chosen = append(chosen, c.ID)
			inChosen[c.ID] = true
		}
	}

	for _, camID := range chosen {
		cam, err := t.camera(camID)
		if err != nil || cam == nil {
			return err
		}
		if cam.Status != models.CameraEnUso {
			cam.Status = models.CameraEnUso
			t.appendHistory(cam.ID, models.HistoryTournament,
				fmt.Sprintf("Asignada a torneo %s", tour.Name),
				map[string]string{"tournamentId": tour.ID, "state": tour.State})
		}
	}

	tour.Cameras = chosen
	switch {
	case required > 0 && len(chosen) >= required:
		tour.CameraStatus = models.CameraStatusComplete
	case len(chosen) == 0:
		tour.CameraStatus = models.CameraStatusNone
	default:
		tour.CameraStatus = models.CameraStatusInsufficient
	}
	return nil
}

// deriveStatus computes the date-driven status, then forces pendiente for any
// tournament that does not have its full camera complement.
func deriveStatus(tour *models.Tournament) string {
	if tour.Status == models.TournamentCancelado {
		return models.TournamentCancelado
	}
	status := models.TournamentPendiente
	if start, err := time.Parse(models.DateLayout, tour.Date); err == nil {
		end := start
		if e, err := time.Parse(models.DateLayout, tour.EndDate); err == nil {
			end = e
		}
		today := time.Now().Truncate(24 * time.Hour)
		switch {
		case today.Before(start):
			status = models.TournamentPendiente
		case today.After(end):
			status = models.TournamentTerminado
		default:
			status = models.TournamentActivo
		}
	}
	if tour.CameraStatus != models.CameraStatusComplete {
		return models.TournamentPendiente
	}
	return status
}

func normalizeDates(tour *models.Tournament) {
	if tour.EndDate == "" && tour.Days > 0 {
		if start, err := time.Parse(models.DateLayout, tour.Date); err == nil {
			tour.EndDate = start.AddDate(0, 0, tour.Days-1).Format(models.DateLayout)
		}
	}
	if tour.Days == 0 && tour.EndDate != "" {
		start, err1 := time.Parse(models.DateLayout, tour.Date)
		end, err2 := time.Parse(models.DateLayout, tour.EndDate)
		if err1 == nil && err2 == nil && !end.Before(start) {
			tour.Days = int(end.Sub(start).Hours()/24) + 1
		}
	}
}

func (s *Service) CreateTournament(ctx context.Context, in models.Tournament) (*models.Tournament, HistoryOutcome, error) {
	id, err := s.store.NextID(ctx, "TRN")
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	in.ID = id
	in.CreatedAt = time.Now().UTC()
	normalizeDates(&in)

	t := s.begin(ctx)
	if err := t.evaluateCameras(&in, in.Cameras); err != nil {
		return nil, HistoryOutcome{}, err
	}
	in.Status = deriveStatus(&in)

	outcome, err := t.commit(func(cs *store.ChangeSet) {
		in.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollTournaments, in.ID, in)
	})
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	return &in, outcome, nil
}

func (s *Service) UpdateTournament(ctx context.Context, id string, p TournamentPatch) (*models.Tournament, HistoryOutcome, error) {
	tour, err := s.store.Tournament(ctx, id)
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	oldCameras := cloneList(tour.Cameras)

	t := s.begin(ctx)

	if p.Name != nil {
		tour.Name = *p.Name
	}
	if p.Location != nil {
		tour.Location = *p.Location
	}
	if p.State != nil {
		tour.State = *p.State
	}
	if p.Date != nil {
		tour.Date = *p.Date
	}
	if p.EndDate != nil {
		tour.EndDate = *p.EndDate
	}
	if p.Days != nil {
		tour.Days = *p.Days
	}
	if p.Holes != nil {
		tour.Holes = *p.Holes
	}
	if p.Status != nil {
		tour.Status = *p.Status
	}
	if p.WorkerID != nil {
		tour.WorkerID = *p.WorkerID
	}
	normalizeDates(tour)

	listed := oldCameras
	if p.Cameras != nil {
		listed = *p.Cameras
		inNew := make(map[string]bool, len(listed))
		for _, camID := range listed {
			inNew[camID] = true
		}
		for _, camID := range oldCameras {
			if inNew[camID] {
				continue
			}
			cam, err := t.camera(camID)
			if err != nil {
				return nil, HistoryOutcome{}, err
			}
			if cam != nil && cam.Status == models.CameraEnUso {
				cam.Status = models.CameraDisponible
			}
		}
	}

	if err := t.evaluateCameras(tour, listed); err != nil {
		return nil, HistoryOutcome{}, err
	}
	tour.Status = deriveStatus(tour)

	outcome, err := t.commit(func(cs *store.ChangeSet) {
		tour.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollTournaments, tour.ID, *tour)
	})
	if err != nil {
		return nil, HistoryOutcome{}, err
	}
	return tour, outcome, nil
}

// DeleteTournament releases its cameras back to disponible and purges the
// matching history entries along with the delete.
func (s *Service) DeleteTournament(ctx context.Context, id string) error {
	tour, err := s.store.Tournament(ctx, id)
	if err != nil {
		return err
	}
	t := s.begin(ctx)
	for _, camID := range tour.Cameras {
		cam, err := t.camera(camID)
		if err != nil {
			return err
		}
		if cam != nil && cam.Status == models.CameraEnUso {
			cam.Status = models.CameraDisponible
		}
	}
	t.drop(store.CollTournaments, id)
	_, err = t.commit(func(cs *store.ChangeSet) {
		if err := t.purgeHistory(cs, "tournamentId", id); err != nil {
			logPurgeSkip(err)
		}
	})
	return err
}

// EvaluateTournamentCameras is the form-time preview: it reports what the
// camera list and sufficiency would be without committing anything.
func (s *Service) EvaluateTournamentCameras(ctx context.Context, workerID string, holes int, listed []string) (cameras []string, cameraStatus string, err error) {
	required := holes * 2
	if workerID == "" {
		return []string{}, models.CameraStatusPending, nil
	}
	if _, err := s.store.Worker(ctx, workerID); err == store.ErrNotFound {
		return []string{}, models.CameraStatusPending, nil
	} else if err != nil {
		return nil, "", err
	}

	all, err := s.store.Cameras(ctx)
	if err != nil {
		return nil, "", err
	}
	byID := make(map[string]models.Camera, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	chosen := make([]string, 0, required)
	inChosen := make(map[string]bool)
	for _, camID := range dedupe(listed) {
		c, ok := byID[camID]
		if !ok || c.AssignedTo != workerID || len(chosen) >= required {
			continue
		}
		chosen = append(chosen, camID)
		inChosen[camID] = true
	}
	for _, c := range all {
		if len(chosen) >= required {
			break
		}
		if c.AssignedTo != workerID || c.Status != models.CameraDisponible || inChosen[c.ID] {
			continue
		}
		chosen = append(chosen, c.ID)
		inChosen[c.ID] = true
	}

	switch {
	case required > 0 && len(chosen) >= required:
		cameraStatus = models.CameraStatusComplete
	case len(chosen) == 0:
		cameraStatus = models.CameraStatusNone
	default:
		cameraStatus = models.CameraStatusInsufficient
	}
	return chosen, cameraStatus, nil
}
