// inventory/service.go
//
// Package inventory keeps tournaments, workers, cameras and shipments mutually
// coherent. Every operation stages all of its entity mutations in a single
// change set and commits once, so a cascade can no longer half-apply the way
// a sequence of independent REST calls could. The camera history log is the
// one exception: it is written after the primary commit and its failure is
// reported, not propagated.
package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"camops/models"
	"camops/store"
)

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// HistoryOutcome reports how the best-effort audit write went. Callers log a
// failed outcome; they do not roll back.
type HistoryOutcome struct {
	Written int
	Err     error
}

func (h HistoryOutcome) Ok() bool { return h.Err == nil }

// Patch types use pointer fields so handlers can tell "absent" from "zero".

type WorkerPatch struct {
	Name            *string   `json:"name"`
	State           *string   `json:"state"`
	Phone           *string   `json:"phone"`
	Email           *string   `json:"email"`
	Status          *string   `json:"status"`
	CamerasAssigned *[]string `json:"camerasAssigned"`
}

type CameraPatch struct {
	Model        *string `json:"model"`
	Type         *string `json:"type"`
	Status       *string `json:"status"`
	Location     *string `json:"location"`
	AssignedTo   *string `json:"assignedTo"`
	SerialNumber *string `json:"serialNumber"`
	SimNumber    *string `json:"simNumber"`
	Notes        *string `json:"notes"`
}

type ShipmentPatch struct {
	Cameras        *[]string `json:"cameras"`
	Origin         *string   `json:"origin"`
	Destination    *string   `json:"destination"`
	RecipientID    *string   `json:"recipientId"`
	Shipper        *string   `json:"shipper"`
	Sender         *string   `json:"sender"`
	Date           *string   `json:"date"`
	Status         *string   `json:"status"`
	TrackingNumber *string   `json:"trackingNumber"`
}

type TournamentPatch struct {
	Name     *string   `json:"name"`
	Location *string   `json:"location"`
	State    *string   `json:"state"`
	Date     *string   `json:"date"`
	EndDate  *string   `json:"endDate"`
	Days     *int      `json:"days"`
	Holes    *int      `json:"holes"`
	Status   *string   `json:"status"`
	WorkerID *string   `json:"workerId"`
	Cameras  *[]string `json:"cameras"`
}

// txn caches the workers and cameras touched by one operation so cascading
// mutations see each other, then stages everything into one change set.
type txn struct {
	svc     *Service
	ctx     context.Context
	workers map[string]*models.Worker
	cameras map[string]*models.Camera
	dropped map[store.Collection]map[string]bool
	history []models.HistoryEntry
}

func logPurgeSkip(err error) {
	log.Printf("inventory: history purge skipped: %v", err)
}

func (s *Service) begin(ctx context.Context) *txn {
	return &txn{
		svc:     s,
		ctx:     ctx,
		workers: make(map[string]*models.Worker),
		cameras: make(map[string]*models.Camera),
		dropped: make(map[store.Collection]map[string]bool),
	}
}

// worker returns the cached worker, loading it on first use. A missing worker
// is (nil, nil): per the synchronizer contract a bad reference is logged and
// skipped, never surfaced.
func (t *txn) worker(id string) (*models.Worker, error) {
	if id == "" {
		return nil, nil
	}
	if w, ok := t.workers[id]; ok {
		return w, nil
	}
	w, err := t.svc.store.Worker(t.ctx, id)
	if err == store.ErrNotFound {
		log.Printf("inventory: worker %s not found, skipping cascade", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load worker %s: %w", id, err)
	}
	t.workers[id] = w
	return w, nil
}

func (t *txn) camera(id string) (*models.Camera, error) {
	if c, ok := t.cameras[id]; ok {
		return c, nil
	}
	c, err := t.svc.store.Camera(t.ctx, id)
	if err == store.ErrNotFound {
		log.Printf("inventory: camera %s not found, skipping cascade", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load camera %s: %w", id, err)
	}
	t.cameras[id] = c
	return c, nil
}

func (t *txn) track(w *models.Worker)       { t.workers[w.ID] = w }
func (t *txn) trackCamera(c *models.Camera) { t.cameras[c.ID] = c }

func (t *txn) drop(coll store.Collection, id string) {
	if t.dropped[coll] == nil {
		t.dropped[coll] = make(map[string]bool)
	}
	t.dropped[coll][id] = true
}

func (t *txn) appendHistory(cameraID, typ, title string, details map[string]string) {
	t.history = append(t.history, models.HistoryEntry{
		ID:       uuid.NewString(),
		CameraID: cameraID,
		Type:     typ,
		Title:    title,
		Details:  details,
		Date:     time.Now().UTC(),
	})
}

// purgeHistory stages the deletion of every history entry whose details carry
// the given foreign key. Staged in the primary change set so the purge is
// atomic with the parent delete.
func (t *txn) purgeHistory(cs *store.ChangeSet, key, value string) error {
	entries, err := t.svc.store.History(t.ctx)
	if err != nil {
		return fmt.Errorf("scan history: %w", err)
	}
	for _, e := range entries {
		if e.Details[key] == value {
			cs.Delete(store.CollHistory, e.ID)
		}
	}
	return nil
}

func (t *txn) purgeHistoryForCamera(cs *store.ChangeSet, cameraID string) error {
	entries, err := t.svc.store.HistoryForCamera(t.ctx, cameraID)
	if err != nil {
		return fmt.Errorf("scan camera history: %w", err)
	}
	for _, e := range entries {
		cs.Delete(store.CollHistory, e.ID)
	}
	return nil
}

// commit writes every touched entity plus whatever extra stages, then appends
// the pending history entries in a second, best-effort commit.
func (t *txn) commit(extra func(cs *store.ChangeSet)) (HistoryOutcome, error) {
	cs := store.NewChangeSet()
	for id, w := range t.workers {
		if t.dropped[store.CollWorkers][id] {
			continue
		}
		w.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollWorkers, id, *w)
	}
	for id, c := range t.cameras {
		if t.dropped[store.CollCameras][id] {
			continue
		}
		c.UpdatedAt = time.Now().UTC()
		cs.Put(store.CollCameras, id, *c)
	}
	for coll, ids := range t.dropped {
		for id := range ids {
			cs.Delete(coll, id)
		}
	}
	if extra != nil {
		extra(cs)
	}
	if err := t.svc.store.Commit(t.ctx, cs); err != nil {
		return HistoryOutcome{}, err
	}

	if len(t.history) == 0 {
		return HistoryOutcome{}, nil
	}
	hcs := store.NewChangeSet()
	for _, e := range t.history {
		hcs.Put(store.CollHistory, e.ID, e)
	}
	if err := t.svc.store.Commit(t.ctx, hcs); err != nil {
		return HistoryOutcome{Err: err}, nil
	}
	return HistoryOutcome{Written: len(t.history)}, nil
}
