// store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"camops/models"
)

// MemoryStore keeps every collection in process memory. It backs the offline
// mode when Mongo is unreachable and is the store used by tests. A single
// mutex makes each Commit atomic with respect to readers.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[Collection]map[string]interface{}
	counters map[string]int
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		data:     make(map[Collection]map[string]interface{}),
		counters: make(map[string]int),
	}
	for _, c := range []Collection{
		CollWorkers, CollCameras, CollTournaments, CollShipments,
		CollHistory, CollUsers, CollLoginHistory,
	} {
		m.data[c] = make(map[string]interface{})
	}
	return m
}

func (m *MemoryStore) Mode() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) NextID(ctx context.Context, prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[prefix]++
	return fmt.Sprintf("%s-%03d", prefix, m.counters[prefix]), nil
}

func (m *MemoryStore) Commit(ctx context.Context, cs *ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range cs.Ops() {
		coll, ok := m.data[op.Coll]
		if !ok {
			return fmt.Errorf("memory store: unknown collection %q", op.Coll)
		}
		if op.Doc == nil {
			delete(coll, op.ID)
			continue
		}
		coll[op.ID] = op.Doc
	}
	return nil
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (m *MemoryStore) Workers(ctx context.Context) ([]models.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Worker, 0, len(m.data[CollWorkers]))
	for _, v := range m.data[CollWorkers] {
		w := v.(models.Worker)
		w.CamerasAssigned = cloneIDs(w.CamerasAssigned)
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Worker(ctx context.Context, id string) (*models.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[CollWorkers][id]
	if !ok {
		return nil, ErrNotFound
	}
	w := v.(models.Worker)
	w.CamerasAssigned = cloneIDs(w.CamerasAssigned)
	return &w, nil
}

func (m *MemoryStore) Cameras(ctx context.Context) ([]models.Camera, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Camera, 0, len(m.data[CollCameras]))
	for _, v := range m.data[CollCameras] {
		out = append(out, v.(models.Camera))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Camera(ctx context.Context, id string) (*models.Camera, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[CollCameras][id]
	if !ok {
		return nil, ErrNotFound
	}
	c := v.(models.Camera)
	return &c, nil
}

func (m *MemoryStore) Tournaments(ctx context.Context) ([]models.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Tournament, 0, len(m.data[CollTournaments]))
	for _, v := range m.data[CollTournaments] {
		t := v.(models.Tournament)
		t.Cameras = cloneIDs(t.Cameras)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryStore) Tournament(ctx context.Context, id string) (*models.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[CollTournaments][id]
	if !ok {
		return nil, ErrNotFound
	}
	t := v.(models.Tournament)
	t.Cameras = cloneIDs(t.Cameras)
	return &t, nil
}

func (m *MemoryStore) Shipments(ctx context.Context) ([]models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Shipment, 0, len(m.data[CollShipments]))
	for _, v := range m.data[CollShipments] {
		s := v.(models.Shipment)
		s.Cameras = cloneIDs(s.Cameras)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Shipment(ctx context.Context, id string) (*models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[CollShipments][id]
	if !ok {
		return nil, ErrNotFound
	}
	s := v.(models.Shipment)
	s.Cameras = cloneIDs(s.Cameras)
	return &s, nil
}

func (m *MemoryStore) History(ctx context.Context) ([]models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.HistoryEntry, 0, len(m.data[CollHistory]))
	for _, v := range m.data[CollHistory] {
		out = append(out, v.(models.HistoryEntry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MemoryStore) HistoryForCamera(ctx context.Context, cameraID string) ([]models.HistoryEntry, error) {
	all, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.HistoryEntry, 0)
	for _, e := range all {
		if e.CameraID == cameraID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) Users(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.data[CollUsers]))
	for _, v := range m.data[CollUsers] {
		out = append(out, v.(models.User))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) User(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[CollUsers][id]
	if !ok {
		return nil, ErrNotFound
	}
	u := v.(models.User)
	return &u, nil
}

func (m *MemoryStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.data[CollUsers] {
		u := v.(models.User)
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) LoginHistory(ctx context.Context) ([]models.LoginRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.LoginRecord, 0, len(m.data[CollLoginHistory]))
	for _, v := range m.data[CollLoginHistory] {
		out = append(out, v.(models.LoginRecord))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
